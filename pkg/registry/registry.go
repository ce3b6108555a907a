package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/arborui/arbor/pkg/domain"
)

// HandlerFunc is the server-side handler bound to a channel.
// It receives the decoded message payload after the gate has allowed it.
type HandlerFunc func(ctx context.Context, msg domain.Message) error

type entry struct {
	channel domain.Channel
	handler HandlerFunc
}

// Registry manages the channels registered on a tree's components.
// Each channel carries its own override mode independently; the mode is fixed
// at registration time and validated there, never at delivery time.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[string]entry // node ID -> channel name
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]map[string]entry),
	}
}

// Register binds a channel to a node. The kind and mode strings are validated
// here so misconfiguration fails fast; an empty mode means the default
// block-when-disabled. The handler may be nil if delivery goes through a
// ports.MessageDispatcher instead.
func (r *Registry) Register(nodeID, name, kind, mode string, fn HandlerFunc) (domain.Channel, error) {
	k, err := domain.ParseChannelKind(kind)
	if err != nil {
		return domain.Channel{}, fmt.Errorf("channel %s/%s: %w", nodeID, name, err)
	}
	m, err := domain.ParseOverrideMode(mode)
	if err != nil {
		return domain.Channel{}, fmt.Errorf("channel %s/%s: %w", nodeID, name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.channels[nodeID]
	if !ok {
		byName = make(map[string]entry)
		r.channels[nodeID] = byName
	}
	if _, exists := byName[name]; exists {
		return domain.Channel{}, fmt.Errorf("%w: %s/%s", domain.ErrDuplicateChannel, nodeID, name)
	}

	ch := domain.Channel{NodeID: nodeID, Name: name, Kind: k, Mode: m}
	byName[name] = entry{channel: ch, handler: fn}
	return ch, nil
}

// Lookup resolves a channel and its handler by node and name.
func (r *Registry) Lookup(nodeID, name string) (domain.Channel, HandlerFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.channels[nodeID][name]
	if !ok {
		return domain.Channel{}, nil, fmt.Errorf("%w: %s/%s", domain.ErrChannelNotFound, nodeID, name)
	}
	return e.channel, e.handler, nil
}

// Bind replaces the handler of an already registered channel. Used after a
// session is restored from a snapshot, where channel configuration survives
// but handler funcs do not.
func (r *Registry) Bind(nodeID, name string, fn HandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.channels[nodeID]
	if !ok {
		return fmt.Errorf("%w: %s/%s", domain.ErrChannelNotFound, nodeID, name)
	}
	e, ok := byName[name]
	if !ok {
		return fmt.Errorf("%w: %s/%s", domain.ErrChannelNotFound, nodeID, name)
	}
	e.handler = fn
	byName[name] = e
	return nil
}

// Unregister removes a single channel. Removing an unknown channel is a no-op.
func (r *Registry) Unregister(nodeID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byName, ok := r.channels[nodeID]; ok {
		delete(byName, name)
		if len(byName) == 0 {
			delete(r.channels, nodeID)
		}
	}
}

// RemoveNode drops every channel bound to the node. Called when a component
// is removed from the tree.
func (r *Registry) RemoveNode(nodeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, nodeID)
}

// List returns the channels registered on a node, in unspecified order.
func (r *Registry) List(nodeID string) []domain.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byName := r.channels[nodeID]
	out := make([]domain.Channel, 0, len(byName))
	for _, e := range byName {
		out = append(out, e.channel)
	}
	return out
}
