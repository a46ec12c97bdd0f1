package validation

import "fmt"

// Numeric limits of the wizard
var (
	// ModuleMin is the smallest module count of a course
	ModuleMin = 1

	// SlideMin and SlideMax bound the slide count of a module
	SlideMin = 1
	SlideMax = 30
)

// Numeric validation
type NumericValidation struct {
	Value    int
	Min      int
	Max      int
	Required bool
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{
		Value:    value,
		Required: true,
	}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// WithRequired sets if field is required
func (v *NumericValidation) WithRequired(required bool) *NumericValidation {
	v.Required = required
	return v
}

// Validate performs validation. A zero Min or Max is unbounded.
func (v *NumericValidation) Validate() bool {
	if !v.Required && v.Value == 0 {
		return true
	}

	// Check min value
	if v.Min != 0 && v.Value < v.Min {
		return false
	}

	// Check max value
	if v.Max != 0 && v.Value > v.Max {
		return false
	}

	return true
}

// Message describes the accepted range
func (v *NumericValidation) Message() string {
	switch {
	case v.Min != 0 && v.Max != 0:
		return fmt.Sprintf("must be a whole number between %d and %d", v.Min, v.Max)
	case v.Min != 0:
		return fmt.Sprintf("must be a whole number of at least %d", v.Min)
	case v.Max != 0:
		return fmt.Sprintf("must be a whole number of at most %d", v.Max)
	default:
		return "must be a whole number"
	}
}
