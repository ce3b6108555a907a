package runtime

import "github.com/arborui/arbor/pkg/domain"

// Gate decides whether an inbound client-to-server message may reach its
// bound handler. The decision is pure; drop side effects (logging, hooks,
// metrics) belong to the caller.
type Gate struct{}

// Allow reports whether a message on a channel with the given override mode
// may pass given the target node's effective enabled state.
//
// Enabled nodes accept everything. Disabled nodes accept only channels
// configured with ModeAlwaysAllow; everything else is a defined-silent drop,
// never an error surfaced to the remote client.
func (Gate) Allow(effectiveEnabled bool, mode domain.OverrideMode) bool {
	if effectiveEnabled {
		return true
	}
	return mode == domain.ModeAlwaysAllow
}
