package arbor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arborui/arbor/internal/runtime"
	"github.com/arborui/arbor/pkg/domain"
	"github.com/arborui/arbor/pkg/ports"
	"github.com/arborui/arbor/pkg/registry"
)

// Message is re-exported for host convenience.
type Message = domain.Message

// HandlerFunc is re-exported for host convenience.
type HandlerFunc = registry.HandlerFunc

// Session owns a single component tree plus its registered channels, and is
// the only entry point for mutating or querying them.
//
// Every operation takes the session mutex, giving each tree the single
// logical owner the propagation model assumes: effective state is fully
// settled before any later gate decision runs, and propagation and gating
// never interleave. Independent sessions share nothing.
type Session struct {
	id string

	mu       sync.Mutex
	tree     *runtime.Tree
	channels *registry.Registry
	order    []string // node insertion order, for deterministic snapshots

	gate       runtime.Gate
	hooks      domain.LifecycleHooks
	dispatcher ports.MessageDispatcher
	logger     *slog.Logger
}

// New creates an empty session.
func New(id string, opts ...Option) *Session {
	cfg := applyOptions(opts)

	s := &Session{
		id:         id,
		channels:   registry.NewRegistry(),
		hooks:      cfg.stampedHooks(id),
		dispatcher: cfg.dispatcher,
		logger:     cfg.logger,
	}
	s.tree = runtime.NewTree(
		runtime.WithHooks(s.hooks),
		runtime.WithLogger(s.logger),
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// AddNode registers a new detached component. A fresh component is
// effectively enabled.
func (s *Session) AddNode(id, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.AddNode(id, kind); err != nil {
		return err
	}
	s.order = append(s.order, id)
	return nil
}

// Attach places a detached component under a parent. The subtree's effective
// state is re-derived from the new ancestor chain before Attach returns.
func (s *Session) Attach(ctx context.Context, id, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Attach(ctx, id, parentID)
}

// Detach removes a component from its parent. Its explicit flag is kept; any
// implicit disable inherited from ancestors is discarded.
func (s *Session) Detach(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Detach(ctx, id)
}

// Remove detaches a component and deletes its subtree, releasing the
// channels registered on every removed node.
func (s *Session) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.tree.Remove(ctx, id)
	if err != nil {
		return err
	}
	gone := make(map[string]bool, len(removed))
	for _, rid := range removed {
		s.channels.RemoveNode(rid)
		gone[rid] = true
	}
	kept := s.order[:0]
	for _, oid := range s.order {
		if !gone[oid] {
			kept = append(kept, oid)
		}
	}
	s.order = kept
	return nil
}

// SetEnabled toggles the explicit disabled flag of a component and propagates
// the change through its subtree. Idempotent when the flag is unchanged.
func (s *Session) SetEnabled(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.SetEnabled(ctx, id, enabled)
}

// IsEnabled returns the effective enabled state of a component. Hosts use
// this to reflect disabled styling to the remote client.
func (s *Session) IsEnabled(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.IsEnabled(id)
}

// RegisterChannel binds an inbound communication path to a component. The
// kind and mode are validated here; unknown values fail immediately rather
// than at message-delivery time. An empty mode selects block-when-disabled.
func (s *Session) RegisterChannel(nodeID, name, kind, mode string, fn HandlerFunc) (domain.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tree.Has(nodeID) {
		return domain.Channel{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, nodeID)
	}
	return s.channels.Register(nodeID, name, kind, mode, fn)
}

// BindHandler attaches a handler to a channel restored from a snapshot.
func (s *Session) BindHandler(nodeID, name string, fn HandlerFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels.Bind(nodeID, name, fn)
}

// Channels lists the channels registered on a component.
func (s *Session) Channels(nodeID string) []domain.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels.List(nodeID)
}

// Deliver runs an inbound message through the gate and, if allowed, hands it
// to the channel handler or the session dispatcher.
//
// The returned bool reports whether the message was dispatched. A gated drop
// is (false, nil): by contract the remote client sees no error and server
// state for the channel is untouched. Unknown nodes or channels are host
// configuration errors and are returned as such.
func (s *Session) Deliver(ctx context.Context, msg Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.SessionID = s.id
	ch, fn, err := s.channels.Lookup(msg.NodeID, msg.Channel)
	if err != nil {
		return false, err
	}
	enabled, err := s.tree.IsEnabled(msg.NodeID)
	if err != nil {
		return false, err
	}

	event := &domain.MessageEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			SessionID: s.id,
		},
		Message: msg,
		Kind:    ch.Kind,
		Enabled: enabled,
	}

	if !s.gate.Allow(enabled, ch.Mode) {
		event.Type = domain.EventMessageDropped
		s.logger.Debug("message dropped",
			"session", s.id,
			"node", msg.NodeID,
			"channel", msg.Channel,
			"kind", ch.Kind,
		)
		if s.hooks.OnMessageDropped != nil {
			s.hooks.OnMessageDropped(ctx, event)
		}
		return false, nil
	}

	event.Type = domain.EventMessageAllowed
	if s.hooks.OnMessageAllowed != nil {
		s.hooks.OnMessageAllowed(ctx, event)
	}

	if fn != nil {
		return true, fn(ctx, msg)
	}
	if s.dispatcher != nil {
		return true, s.dispatcher.Dispatch(ctx, ch, msg)
	}
	// Allowed but nothing is bound: the host registered a channel without a
	// sink. Treat as delivered; the gate's job is done.
	s.logger.Warn("allowed message has no handler or dispatcher",
		"session", s.id,
		"node", msg.NodeID,
		"channel", msg.Channel,
	)
	return true, nil
}

// Snapshot captures the session tree and channel configuration.
func (s *Session) Snapshot() *domain.TreeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.tree.Snapshot(s.order)
	snap.SessionID = s.id
	snap.Walk(func(n *domain.NodeSnapshot, _ int) bool {
		for _, ch := range s.channels.List(n.ID) {
			n.Channels = append(n.Channels, domain.ChannelSpec{
				Name: ch.Name,
				Kind: string(ch.Kind),
				Mode: string(ch.Mode),
			})
		}
		return true
	})
	return snap
}

// Restore rebuilds a session from a snapshot. Effective state is re-derived;
// channel configuration is restored without handlers, which the host re-binds
// via BindHandler.
func Restore(snap *domain.TreeSnapshot, opts ...Option) (*Session, error) {
	cfg := applyOptions(opts)

	s := &Session{
		id:         snap.SessionID,
		channels:   registry.NewRegistry(),
		hooks:      cfg.stampedHooks(snap.SessionID),
		dispatcher: cfg.dispatcher,
		logger:     cfg.logger,
	}

	tree, err := runtime.Restore(snap,
		runtime.WithHooks(s.hooks),
		runtime.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.tree = tree

	var regErr error
	snap.Walk(func(n *domain.NodeSnapshot, _ int) bool {
		s.order = append(s.order, n.ID)
		for _, spec := range n.Channels {
			if _, err := s.channels.Register(n.ID, spec.Name, spec.Kind, spec.Mode, nil); err != nil {
				regErr = err
				return false
			}
		}
		return true
	})
	if regErr != nil {
		return nil, regErr
	}
	return s, nil
}
