package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers bus hooks that log all event activity at debug level.
// Uses OnPublish for event firing, OnDrop for buffer-full warnings, and OnPanic
// for subscriber panic reporting.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, _ any) {
		logger.Debug().Str("event", string(event)).Msg("event fired")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().Str("event", string(event)).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

// RegisterAuditLogger logs completed and cleared checklists and catalog
// reloads at info level.
func RegisterAuditLogger(bus *EventBus, logger zerolog.Logger) {
	bus.SubscribeChecklistCompleted(func(p ChecklistCompletedPayload) {
		logger.Info().
			Str("job_type", p.JobType).
			Str("job_number", p.JobNumber).
			Strs("recipients", p.Draft.Recipients).
			Msg("checklist completed")
	})

	bus.SubscribeChecklistCleared(func(p ChecklistClearedPayload) {
		logger.Info().Str("job_type", p.JobType).Msg("checklist cleared")
	})

	bus.SubscribeCatalogReloaded(func(p CatalogReloadedPayload) {
		if p.Err != nil {
			logger.Error().Err(p.Err).Msg("catalog reload failed")
			return
		}
		logger.Info().Int("job_types", p.JobTypes).Msg("catalog reloaded")
	})
}
