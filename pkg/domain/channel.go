package domain

import "fmt"

// ChannelKind classifies an inbound client-to-server communication path.
type ChannelKind string

const (
	// ChannelPropertySync carries client-side property value changes back to
	// the server-side component (two-way data binding).
	ChannelPropertySync ChannelKind = "property-sync"
	// ChannelDOMEvent carries subscribed DOM/UI events (click, keydown, ...).
	ChannelDOMEvent ChannelKind = "dom-event"
	// ChannelEventHandler carries component-level event handler invocations.
	ChannelEventHandler ChannelKind = "event-handler"
	// ChannelServerCall carries invocations of server-callable methods.
	ChannelServerCall ChannelKind = "server-call"
)

// ParseChannelKind validates a raw kind string.
// Unknown kinds are a configuration error and must be rejected at
// registration time, never at message-delivery time.
func ParseChannelKind(raw string) (ChannelKind, error) {
	switch k := ChannelKind(raw); k {
	case ChannelPropertySync, ChannelDOMEvent, ChannelEventHandler, ChannelServerCall:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannelKind, raw)
}

// OverrideMode determines whether a disabled component blocks a channel.
type OverrideMode string

const (
	// ModeBlockWhenDisabled drops inbound messages while the component is
	// effectively disabled. This is the default for every channel kind.
	ModeBlockWhenDisabled OverrideMode = "block-when-disabled"
	// ModeAlwaysAllow lets messages through regardless of enabled state.
	ModeAlwaysAllow OverrideMode = "always-allow"
)

// ParseOverrideMode validates a raw mode string, treating the empty string as
// the default ModeBlockWhenDisabled.
func ParseOverrideMode(raw string) (OverrideMode, error) {
	switch m := OverrideMode(raw); m {
	case "":
		return ModeBlockWhenDisabled, nil
	case ModeBlockWhenDisabled, ModeAlwaysAllow:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOverrideMode, raw)
}

// Channel describes a registered communication path on a component.
type Channel struct {
	// NodeID identifies the owning component.
	NodeID string `json:"node_id" yaml:"node_id"`

	// Name distinguishes channels on the same component (e.g. "value",
	// "click", "save"). Unique per node.
	Name string `json:"name" yaml:"name"`

	Kind ChannelKind  `json:"kind" yaml:"kind"`
	Mode OverrideMode `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// Message is a decoded inbound client-to-server message.
// The transport adapter constructs one per request; the engine decides via the
// gate whether it reaches the bound handler.
type Message struct {
	SessionID string         `json:"session_id"`
	NodeID    string         `json:"node_id"`
	Channel   string         `json:"channel"`
	Payload   map[string]any `json:"payload,omitempty"`
}
