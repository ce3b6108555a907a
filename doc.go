/*
Package arbor tracks hierarchical enabled/disabled state for server-side UI
component trees and gates inbound client-to-server communication against it.

A Session owns one component tree. Components carry an explicit disabled flag;
the effective state of every component is derived from its own flag and its
ancestor chain, and is recomputed synchronously on every attach, detach, and
explicit toggle. Inbound messages (property syncs, DOM events, event handler
and server-method invocations) are registered as channels; when a message
arrives for a disabled component, the gate drops it silently unless the
channel was registered with the always-allow override.

Arbor is the state core of a UI framework, not the framework itself: rendering,
property binding, and the wire protocol belong to the host, which drives the
tree through the Session API and asks the gate before dispatching any decoded
message.

# Usage

	sess := arbor.New("session-1")

	_ = sess.AddNode("form", "layout")
	_ = sess.AddNode("save", "button")
	_ = sess.Attach(ctx, "save", "form")

	_, _ = sess.RegisterChannel("save", "click", "dom-event", "", onSaveClicked)

	_ = sess.SetEnabled(ctx, "form", false) // disables "save" implicitly

	// A click arriving now is silently dropped:
	delivered, _ := sess.Deliver(ctx, arbor.Message{NodeID: "save", Channel: "click"})
	// delivered == false

Sessions serialize all operations internally: propagation always settles
before the next gate decision is evaluated. Distinct sessions are fully
independent.
*/
package arbor
