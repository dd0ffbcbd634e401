package observability

import (
	"log/slog"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log state entries at debug level and stops at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e domain.StateEvent) {
			logger.Debug("state_enter",
				"definition", e.Definition,
				"state", e.StateName,
				"symbol", e.Symbol,
				"phase", e.Phase)
		},
		OnStop: func(e domain.StateEvent) {
			logger.Info("traversal_stop",
				"definition", e.Definition,
				"state", e.StateName,
				"callback", e.Callback,
				"symbol", e.Symbol)
		},
	}
}

// Combine merges several hooks into one that calls each of them in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var enters, stops []func(domain.StateEvent)
	for _, h := range hooks {
		if h.OnEnter != nil {
			enters = append(enters, h.OnEnter)
		}
		if h.OnStop != nil {
			stops = append(stops, h.OnStop)
		}
	}

	var combined domain.LifecycleHooks
	if len(enters) > 0 {
		combined.OnEnter = func(e domain.StateEvent) {
			for _, fn := range enters {
				fn(e)
			}
		}
	}
	if len(stops) > 0 {
		combined.OnStop = func(e domain.StateEvent) {
			for _, fn := range stops {
				fn(e)
			}
		}
	}
	return combined
}
