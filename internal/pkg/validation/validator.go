package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

// custom validation tags & texts
const (
	NotBlankTag  = "notblank"
	notBlankText = "{0} cannot be blank"

	AlphaNumUnderTag  = "alphanum_"
	alphaNumUnderText = "{0} may only contain letters, digits, underscores and spaces"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

var alphaNumUnderRegex = regexp.MustCompile(`^[A-Za-z0-9_ ]+$`)

// Validator validates tagged structs and turns failures into apperrors.ValidationError
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New instantiates the validator with English messages.
func New() *Validator {
	validate := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(NotBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(AlphaNumUnderTag, alphaNumUnderValidation)

	v := &Validator{validate: validate, translator: translator}
	v.registerTranslation(NotBlankTag, notBlankText, false)
	v.registerTranslation(AlphaNumUnderTag, alphaNumUnderText, false)
	v.registerTranslation(requiredTag, requiredText, true)
	return v
}

// registerTranslation registers a custom translation for the specified validation tag.
func (v *Validator) registerTranslation(tag, text string, override bool) {
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s. Field failures are returned as a *apperrors.ValidationError for stage.
func (v *Validator) Struct(stage string, s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := apperrors.NewValidationError(stage)
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
		})
	}
	return verr
}

// Custom Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// alphaNumUnderValidation only allows ASCII letters, digits, underscores and spaces.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}
