/*
Package ports defines the driven ports (interfaces) for the Arbor engine.

These interfaces decouple the core logic from external implementations,
allowing sessions to be persisted in various backends and allowed messages to
be dispatched into the host framework.

# Key Interfaces

  - StateStore: persists and loads session tree snapshots.
  - MessageDispatcher: receives messages the gate has allowed when no
    per-channel handler is bound.
  - DistributedLocker: coordinates session access across replicas.
*/
package ports
