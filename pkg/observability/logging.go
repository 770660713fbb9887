package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/missionkit/pkg/domain"
)

// LoggingHooks logs every command at debug level, failed ones at warn, and changes at debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "command_failed",
					"session_id", e.SessionID,
					"op", e.Op,
					"error", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "command",
				"session_id", e.SessionID,
				"op", e.Op,
				"applied", e.Applied,
				"duration", e.Duration,
			)
		},
		OnChange: func(ctx context.Context, e *domain.ChangeEvent) {
			logger.DebugContext(ctx, "change",
				"session_id", e.SessionID,
				"type", e.Type,
				"step_id", e.StepID,
			)
		},
	}
}
