package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEnabledChange  EventType = "enabled_change"
	EventAttach         EventType = "attach"
	EventDetach         EventType = "detach"
	EventMessageAllowed EventType = "message_allowed"
	EventMessageDropped EventType = "message_dropped"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// EnabledEvent records an effective-state transition on a single node.
// One event fires per node whose value actually changed during a propagation
// pass, in tree order.
type EnabledEvent struct {
	EventBase
	NodeID  string `json:"node_id"`
	Enabled bool   `json:"enabled"`
}

// TopologyEvent records an attach or detach of a subtree root.
type TopologyEvent struct {
	EventBase
	NodeID   string `json:"node_id"`
	ParentID string `json:"parent_id,omitempty"`
}

// MessageEvent records a gate decision for an inbound message.
type MessageEvent struct {
	EventBase
	Message Message     `json:"message"`
	Kind    ChannelKind `json:"kind"`
	// Enabled is the effective state of the target node at decision time.
	Enabled bool `json:"enabled"`
}

// LifecycleHooks defines callbacks for engine observability.
//
// Hooks fire synchronously, inside the mutating operation, after the node in
// question has its new state but possibly before the rest of the subtree has
// been visited. Hook implementations must not mutate the tree.
type LifecycleHooks struct {
	OnEnabledChange  func(context.Context, *EnabledEvent)
	OnAttach         func(context.Context, *TopologyEvent)
	OnDetach         func(context.Context, *TopologyEvent)
	OnMessageAllowed func(context.Context, *MessageEvent)
	OnMessageDropped func(context.Context, *MessageEvent)
}

// Merge layers other on top of h: both callbacks run, h's first.
// Useful for combining application hooks with metrics collection.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	merged := h
	if other.OnEnabledChange != nil {
		prev := merged.OnEnabledChange
		merged.OnEnabledChange = func(ctx context.Context, e *EnabledEvent) {
			if prev != nil {
				prev(ctx, e)
			}
			other.OnEnabledChange(ctx, e)
		}
	}
	if other.OnAttach != nil {
		prev := merged.OnAttach
		merged.OnAttach = func(ctx context.Context, e *TopologyEvent) {
			if prev != nil {
				prev(ctx, e)
			}
			other.OnAttach(ctx, e)
		}
	}
	if other.OnDetach != nil {
		prev := merged.OnDetach
		merged.OnDetach = func(ctx context.Context, e *TopologyEvent) {
			if prev != nil {
				prev(ctx, e)
			}
			other.OnDetach(ctx, e)
		}
	}
	if other.OnMessageAllowed != nil {
		prev := merged.OnMessageAllowed
		merged.OnMessageAllowed = func(ctx context.Context, e *MessageEvent) {
			if prev != nil {
				prev(ctx, e)
			}
			other.OnMessageAllowed(ctx, e)
		}
	}
	if other.OnMessageDropped != nil {
		prev := merged.OnMessageDropped
		merged.OnMessageDropped = func(ctx context.Context, e *MessageEvent) {
			if prev != nil {
				prev(ctx, e)
			}
			other.OnMessageDropped(ctx, e)
		}
	}
	return merged
}
