package telemetry

import (
	"time"

	"github.com/rs/zerolog"
)

// Hooks instruments pipeline runs and their stages with structured logging.
// It is intentionally minimal; metrics backends can be added later under
// this package.
type Hooks struct {
	logger zerolog.Logger
}

// NewHooks constructs a Hooks instance with the provided logger.
func NewHooks(logger zerolog.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// OnRunStart records the beginning of a pipeline run.
func (h *Hooks) OnRunStart(input string) {
	h.logger.Info().Str("input", input).Msg("pipeline run started")
}

// OnStage logs a completed pipeline stage and its duration. Errors are
// logged here and still returned to the caller by the pipeline.
func (h *Hooks) OnStage(stage string, start time.Time, err error) {
	d := time.Since(start)
	if err != nil {
		h.logger.Error().Str("stage", stage).Dur("duration", d).Err(err).Msg("pipeline stage failed")
		return
	}
	h.logger.Info().Str("stage", stage).Dur("duration", d).Msg("pipeline stage completed")
}

// OnRunComplete records a finished run and where the artifact landed.
func (h *Hooks) OnRunComplete(artifactPath string, records int, start time.Time) {
	h.logger.Info().
		Str("artifact", artifactPath).
		Int("records", records).
		Dur("duration", time.Since(start)).
		Msg("pipeline run completed")
}
