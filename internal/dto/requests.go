// Package dto defines the request shapes accepted by the HTTP adapter.
// Bodies arrive as loosely-typed JSON maps and are decoded with
// "mapstructure" tags, so hosts can post extra fields without breaking.
package dto

// CreateSession starts a new empty session.
type CreateSession struct {
	ID string `json:"id" mapstructure:"id"`
}

// AddNode registers a detached component on a session.
type AddNode struct {
	ID   string `json:"id" mapstructure:"id"`
	Kind string `json:"kind" mapstructure:"kind"`
}

// AttachNode places a component under a parent.
type AttachNode struct {
	Parent string `json:"parent" mapstructure:"parent"`
}

// SetEnabled toggles the explicit disabled flag of a component.
type SetEnabled struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// RegisterChannel binds a communication path to a component.
type RegisterChannel struct {
	Name string `json:"name" mapstructure:"name"`
	Kind string `json:"kind" mapstructure:"kind"`
	Mode string `json:"mode" mapstructure:"mode"`
}

// InboundMessage is a client-to-server message awaiting a gate decision.
type InboundMessage struct {
	NodeID  string         `json:"node_id" mapstructure:"node_id"`
	Channel string         `json:"channel" mapstructure:"channel"`
	Payload map[string]any `json:"payload" mapstructure:"payload"`
}
