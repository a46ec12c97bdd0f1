package wizard

import "github.com/rs/zerolog"

// Autosave is the periodic draft hook. It records the tick and writes nothing.
type Autosave struct {
	logger zerolog.Logger
	ticks  int
}

// NewAutosave creates the hook
func NewAutosave(logger zerolog.Logger) *Autosave {
	return &Autosave{logger: logger}
}

// Tick runs on the wizard's event loop
func (a *Autosave) Tick() {
	a.ticks++
	a.logger.Debug().Int("tick", a.ticks).Msg("Autosave tick")
}

// Ticks returns how many times the hook has run. Only call it from the event loop.
func (a *Autosave) Ticks() int {
	return a.ticks
}
