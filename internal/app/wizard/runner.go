package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/services"
	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
	"github.com/elitelearners/coursegen/internal/pkg/eventloop"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

// Runner drives a form session with a Prompter and writes each finished part of the
// course as soon as it is accepted. All writes and autosave ticks run on one event loop.
type Runner struct {
	prompter  Prompter
	courses   services.CourseService
	validator *validation.Validator
	loop      *eventloop.Loop
	autosave  *Autosave
	interval  time.Duration
	logger    zerolog.Logger
	started   bool
}

// Result is what a finished run produced
type Result struct {
	Course domain.Course
	Build  *services.Build
}

// NewRunner creates a runner. A zero autosaveInterval disables the autosave hook.
func NewRunner(prompter Prompter, courses services.CourseService, validator *validation.Validator, autosaveInterval time.Duration, logger zerolog.Logger) *Runner {
	return &Runner{
		prompter:  prompter,
		courses:   courses,
		validator: validator,
		loop:      eventloop.New(16, logger),
		autosave:  NewAutosave(logger),
		interval:  autosaveInterval,
		logger:    logger,
	}
}

// Run collects the whole course. Declining the "cannot go back" confirmation stops the
// run with apperrors.ErrAborted; modules written before that stay on disk.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.started {
		return nil, apperrors.ErrSessionClosed
	}
	r.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = r.loop.Run(loopCtx) }()
	defer func() {
		r.loop.Stop()
		<-r.loop.Done()
	}()

	if r.interval > 0 {
		ticker, err := eventloop.NewTicker(r.loop, r.interval, r.autosave.Tick, r.logger)
		if err != nil {
			return nil, err
		}
		ticker.Start()
		defer ticker.Stop()
	}

	counts, err := r.metadata(ctx, NewSession(r.validator, r.logger))
	if err != nil {
		return nil, err
	}

	var build *services.Build
	if err := r.loop.Do(ctx, func() error {
		var err error
		build, err = r.courses.Begin(counts.Info())
		return err
	}); err != nil {
		return nil, err
	}

	for {
		content, err := r.slideCount(ctx, counts)
		if err != nil {
			return nil, err
		}
		if content, err = r.slides(ctx, content); err != nil {
			return nil, err
		}

		module, next, err := content.FinishModule()
		if err != nil {
			return nil, err
		}
		if err := r.loop.Do(ctx, func() error { return r.courses.WriteModule(build, &module) }); err != nil {
			return nil, err
		}

		switch st := next.(type) {
		case Completed:
			r.prompter.ShowMessage("All modules completed and saved.")
			r.logger.Info().Str("root", build.Layout.Root).Msg("Course completed")
			return &Result{Course: st.Course(), Build: build}, nil
		case SlideCountStage:
			ok, err := r.prompter.ConfirmNextModule(ctx, module.Index)
			if err != nil {
				return nil, err
			}
			if !ok {
				r.logger.Info().Int("module", module.Index).Msg("Author stopped before the next module")
				return nil, apperrors.ErrAborted
			}
			counts = st
		default:
			return nil, fmt.Errorf("unexpected stage %s", next.Name())
		}
	}
}

// metadata prompts until the metadata is accepted
func (r *Runner) metadata(ctx context.Context, st MetadataStage) (SlideCountStage, error) {
	for {
		m, err := r.prompter.Metadata(ctx)
		if err != nil {
			return SlideCountStage{}, err
		}
		next, err := st.SubmitMetadata(m)
		if r.retry(err) {
			continue
		}
		return next, err
	}
}

// slideCount prompts until the slide count of the module is accepted
func (r *Runner) slideCount(ctx context.Context, st SlideCountStage) (SlideContentStage, error) {
	for {
		n, err := r.prompter.SlideCount(ctx, st.Module())
		if err != nil {
			return SlideContentStage{}, err
		}
		next, err := st.SubmitSlideCount(n)
		if r.retry(err) {
			continue
		}
		return next, err
	}
}

// slides prompts for every slide of the module
func (r *Runner) slides(ctx context.Context, st SlideContentStage) (SlideContentStage, error) {
	for !st.ModuleComplete() {
		in, err := r.prompter.Slide(ctx, st.Module(), st.Slide(), st.Total())
		if err != nil {
			return st, err
		}
		next, err := st.SubmitSlide(in)
		if r.retry(err) {
			continue
		}
		if err != nil {
			return st, err
		}
		st = next
	}
	return st, nil
}

// retry shows a validation error and reports whether the question must be asked again
func (r *Runner) retry(err error) bool {
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	r.logger.Debug().Str("stage", verr.Stage).Int("fields", len(verr.Fields)).Msg("Input rejected")
	r.prompter.ShowErrors(verr)
	return true
}
