/*
Package domain contains the core domain models for the Arbor enabled-state engine.

It defines the vocabulary shared by the runtime, the channel registry, the
persistence adapters, and the transport layer: channel kinds and override
modes, inbound messages, tree snapshots, and lifecycle hooks. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - ChannelKind / OverrideMode: classification and gating policy of an inbound
    client-to-server channel.
  - Channel: a registered communication path bound to a component.
  - Message: a decoded inbound client-to-server message awaiting a gate decision.
  - TreeSnapshot: a serializable capture of a component tree (topology, explicit
    disabled flags, channels), used for persistence and declarative loading.
  - LifecycleHooks: callbacks for observing enabled-state transitions and gate
    decisions.
*/
package domain
