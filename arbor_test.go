package arbor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborui/arbor"
	"github.com/arborui/arbor/pkg/domain"
)

func enabled(t *testing.T, s *arbor.Session, id string) bool {
	t.Helper()
	v, err := s.IsEnabled(id)
	require.NoError(t, err)
	return v
}

func TestSession_FreshNodeIsEnabled(t *testing.T) {
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("a", "button"))

	assert.True(t, enabled(t, sess, "a"))
}

func TestSession_AttachToDisabledContainer(t *testing.T) {
	ctx := context.Background()
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("c", "layout"))
	require.NoError(t, sess.SetEnabled(ctx, "c", false))
	require.NoError(t, sess.AddNode("x", "textfield"))
	require.NoError(t, sess.Attach(ctx, "x", "c"))

	assert.False(t, enabled(t, sess, "x"))

	require.NoError(t, sess.Detach(ctx, "x"))
	assert.True(t, enabled(t, sess, "x"))
}

func TestSession_ExplicitDisableWhileDetached(t *testing.T) {
	ctx := context.Background()
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("c", "layout"))
	require.NoError(t, sess.AddNode("y", "button"))
	require.NoError(t, sess.SetEnabled(ctx, "y", false))

	assert.False(t, enabled(t, sess, "y"))

	require.NoError(t, sess.Attach(ctx, "y", "c"))
	assert.False(t, enabled(t, sess, "y"), "explicit flag wins over enabled parent")

	require.NoError(t, sess.Detach(ctx, "y"))
	assert.False(t, enabled(t, sess, "y"), "explicit flag survives detach")
}

func TestSession_DeliverGating(t *testing.T) {
	ctx := context.Background()
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("save", "button"))

	var clicks, pings int
	_, err := sess.RegisterChannel("save", "click", "dom-event", "", func(ctx context.Context, msg arbor.Message) error {
		clicks++
		return nil
	})
	require.NoError(t, err)
	_, err = sess.RegisterChannel("save", "ping", "server-call", "always-allow", func(ctx context.Context, msg arbor.Message) error {
		pings++
		return nil
	})
	require.NoError(t, err)

	// Enabled: both channels pass.
	delivered, err := sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "click"})
	require.NoError(t, err)
	assert.True(t, delivered)

	// Disabled: default channel drops silently, override passes.
	require.NoError(t, sess.SetEnabled(ctx, "save", false))

	delivered, err = sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "click"})
	require.NoError(t, err, "a gated drop is not an error")
	assert.False(t, delivered)

	delivered, err = sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "ping"})
	require.NoError(t, err)
	assert.True(t, delivered)

	assert.Equal(t, 1, clicks, "handler never saw the dropped message")
	assert.Equal(t, 1, pings)
}

func TestSession_DeliverGatesOnAncestorState(t *testing.T) {
	ctx := context.Background()
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("form", "layout"))
	require.NoError(t, sess.AddNode("save", "button"))
	require.NoError(t, sess.Attach(ctx, "save", "form"))

	var clicks int
	_, err := sess.RegisterChannel("save", "click", "dom-event", "", func(ctx context.Context, msg arbor.Message) error {
		clicks++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, sess.SetEnabled(ctx, "form", false))

	delivered, err := sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "click"})
	require.NoError(t, err)
	assert.False(t, delivered, "implicit disable gates like explicit disable")
	assert.Zero(t, clicks)
}

func TestSession_DeliverUnknownChannel(t *testing.T) {
	ctx := context.Background()
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("save", "button"))

	_, err := sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "nope"})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)

	_, err = sess.Deliver(ctx, arbor.Message{NodeID: "ghost", Channel: "click"})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}

func TestSession_RegisterChannelValidation(t *testing.T) {
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("save", "button"))

	_, err := sess.RegisterChannel("ghost", "click", "dom-event", "", nil)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	_, err = sess.RegisterChannel("save", "click", "carrier-pigeon", "", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownChannelKind)

	_, err = sess.RegisterChannel("save", "click", "dom-event", "maybe", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownOverrideMode)
}

type recordingDispatcher struct {
	channels []domain.Channel
	err      error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ch domain.Channel, _ domain.Message) error {
	d.channels = append(d.channels, ch)
	return d.err
}

func TestSession_DispatcherFallback(t *testing.T) {
	ctx := context.Background()
	disp := &recordingDispatcher{}
	sess := arbor.New("s1", arbor.WithDispatcher(disp))
	require.NoError(t, sess.AddNode("field", "textfield"))
	_, err := sess.RegisterChannel("field", "value", "property-sync", "", nil)
	require.NoError(t, err)

	delivered, err := sess.Deliver(ctx, arbor.Message{NodeID: "field", Channel: "value"})
	require.NoError(t, err)
	assert.True(t, delivered)
	require.Len(t, disp.channels, 1)
	assert.Equal(t, domain.ChannelPropertySync, disp.channels[0].Kind)

	disp.err = errors.New("binding rejected")
	_, err = sess.Deliver(ctx, arbor.Message{NodeID: "field", Channel: "value"})
	assert.ErrorContains(t, err, "binding rejected")
}

func TestSession_HooksObserveGateDecisions(t *testing.T) {
	ctx := context.Background()
	var droppedKinds []domain.ChannelKind
	var sessionIDs []string

	sess := arbor.New("s-hooks", arbor.WithHooks(domain.LifecycleHooks{
		OnMessageDropped: func(_ context.Context, e *domain.MessageEvent) {
			droppedKinds = append(droppedKinds, e.Kind)
			sessionIDs = append(sessionIDs, e.SessionID)
		},
	}))
	require.NoError(t, sess.AddNode("save", "button"))
	_, err := sess.RegisterChannel("save", "click", "dom-event", "", nil)
	require.NoError(t, err)
	require.NoError(t, sess.SetEnabled(ctx, "save", false))

	_, err = sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "click"})
	require.NoError(t, err)

	assert.Equal(t, []domain.ChannelKind{domain.ChannelDOMEvent}, droppedKinds)
	assert.Equal(t, []string{"s-hooks"}, sessionIDs)
}

func TestSession_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("form", "layout"))
	require.NoError(t, sess.AddNode("save", "button"))
	require.NoError(t, sess.Attach(ctx, "save", "form"))
	_, err := sess.RegisterChannel("save", "click", "dom-event", "always-allow", nil)
	require.NoError(t, err)
	require.NoError(t, sess.SetEnabled(ctx, "form", false))

	snap := sess.Snapshot()
	assert.Equal(t, "s1", snap.SessionID)

	restored, err := arbor.Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, "s1", restored.ID())
	assert.False(t, enabled(t, restored, "save"), "implicit disable re-derived")

	chans := restored.Channels("save")
	require.Len(t, chans, 1)
	assert.Equal(t, domain.ModeAlwaysAllow, chans[0].Mode)

	// Handlers do not survive the round trip; the host re-binds them.
	var clicked bool
	require.NoError(t, restored.BindHandler("save", "click", func(ctx context.Context, msg arbor.Message) error {
		clicked = true
		return nil
	}))
	delivered, err := restored.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "click"})
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.True(t, clicked)
}

func TestSession_RemoveReleasesChannels(t *testing.T) {
	ctx := context.Background()
	sess := arbor.New("s1")
	require.NoError(t, sess.AddNode("form", "layout"))
	require.NoError(t, sess.AddNode("save", "button"))
	require.NoError(t, sess.Attach(ctx, "save", "form"))
	_, err := sess.RegisterChannel("save", "click", "dom-event", "", nil)
	require.NoError(t, err)

	require.NoError(t, sess.Remove(ctx, "form"))

	_, err = sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "click"})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)

	snap := sess.Snapshot()
	assert.Empty(t, snap.Roots)
}
