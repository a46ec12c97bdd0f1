package wizard

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

// Replay runs complete form input through every stage without prompting. m.Modules is
// taken from len(modules). The first rejected input is returned as is.
func Replay(validator *validation.Validator, logger zerolog.Logger, m Metadata, modules [][]SlideInput) (domain.Course, error) {
	m.Modules = len(modules)
	counts, err := NewSession(validator, logger).SubmitMetadata(m)
	if err != nil {
		return domain.Course{}, err
	}

	for i, inputs := range modules {
		content, err := counts.SubmitSlideCount(len(inputs))
		if err != nil {
			return domain.Course{}, fmt.Errorf("module %d: %w", i+1, err)
		}
		for j, in := range inputs {
			if content, err = content.SubmitSlide(in); err != nil {
				return domain.Course{}, fmt.Errorf("module %d slide %d: %w", i+1, j+1, err)
			}
		}

		_, next, err := content.FinishModule()
		if err != nil {
			return domain.Course{}, err
		}
		switch st := next.(type) {
		case Completed:
			return st.Course(), nil
		case SlideCountStage:
			counts = st
		}
	}
	return domain.Course{}, fmt.Errorf("form input ended before the last module")
}
