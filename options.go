package arbor

import (
	"context"
	"log/slog"

	"github.com/arborui/arbor/internal/logging"
	"github.com/arborui/arbor/pkg/domain"
	"github.com/arborui/arbor/pkg/observability"
	"github.com/arborui/arbor/pkg/ports"
)

// Option defines a functional option for configuring a Session.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	metrics    *observability.Metrics
	dispatcher ports.MessageDispatcher
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks. Hooks fire synchronously inside
// the mutating operation and must not call back into the session.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithMetrics feeds the session's lifecycle events into Prometheus counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithDispatcher sets the sink for allowed messages on channels that were
// registered without a handler func.
func WithDispatcher(d ports.MessageDispatcher) Option {
	return func(c *config) {
		c.dispatcher = d
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// stampedHooks merges user hooks with the metrics adapter and stamps every
// event with the session ID before the callbacks run.
func (c *config) stampedHooks(sessionID string) domain.LifecycleHooks {
	merged := c.hooks
	if c.metrics != nil {
		merged = merged.Merge(c.metrics.Hooks())
	}

	stamped := domain.LifecycleHooks{}
	if fn := merged.OnEnabledChange; fn != nil {
		stamped.OnEnabledChange = func(ctx context.Context, e *domain.EnabledEvent) {
			e.SessionID = sessionID
			fn(ctx, e)
		}
	}
	if fn := merged.OnAttach; fn != nil {
		stamped.OnAttach = func(ctx context.Context, e *domain.TopologyEvent) {
			e.SessionID = sessionID
			fn(ctx, e)
		}
	}
	if fn := merged.OnDetach; fn != nil {
		stamped.OnDetach = func(ctx context.Context, e *domain.TopologyEvent) {
			e.SessionID = sessionID
			fn(ctx, e)
		}
	}
	if fn := merged.OnMessageAllowed; fn != nil {
		stamped.OnMessageAllowed = func(ctx context.Context, e *domain.MessageEvent) {
			e.SessionID = sessionID
			fn(ctx, e)
		}
	}
	if fn := merged.OnMessageDropped; fn != nil {
		stamped.OnMessageDropped = func(ctx context.Context, e *domain.MessageEvent) {
			e.SessionID = sessionID
			fn(ctx, e)
		}
	}
	return stamped
}
