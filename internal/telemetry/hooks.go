package telemetry

import (
	"time"

	"github.com/rs/zerolog"
)

// Hooks implements server lifecycle callbacks for basic telemetry and logging.
// It is intentionally minimal; metrics backends can be added later under this
// package.
type Hooks struct {
	logger zerolog.Logger
}

// NewHooks constructs a Hooks instance with the provided logger.
func NewHooks(logger zerolog.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// OnServerStart is called when the server begins accepting connections.
func (h *Hooks) OnServerStart() {
	h.logger.Info().Msg("analytics server starting")
}

// OnServerStop is called during server shutdown.
func (h *Hooks) OnServerStop() {
	h.logger.Info().Msg("analytics server stopping")
}

// OnSessionStart records the start of a client session.
func (h *Hooks) OnSessionStart(sessionID string) {
	h.logger.Info().Str("session_id", sessionID).Msg("session started")
}

// OnSessionEnd records the end of a client session.
func (h *Hooks) OnSessionEnd(sessionID string) {
	h.logger.Info().Str("session_id", sessionID).Msg("session ended")
}

// OnToolCall logs tool invocations and their outcomes.
func (h *Hooks) OnToolCall(sessionID, toolName string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Error().Str("session_id", sessionID).Str("tool", toolName).Dur("duration", duration).Err(err).Msg("tool call error")
		return
	}
	h.logger.Info().Str("session_id", sessionID).Str("tool", toolName).Dur("duration", duration).Msg("tool call completed")
}

// OnDatasetLoad logs dataset registrations.
func (h *Hooks) OnDatasetLoad(datasetID, path string, rows int, duration time.Duration) {
	h.logger.Info().Str("dataset_id", datasetID).Str("path", path).Int("rows", rows).Dur("duration", duration).Msg("export loaded")
}
