/*
Package observability provides Prometheus instrumentation for the Arbor engine.

It exposes counters for enabled-state transitions, topology changes, and gate
decisions, and a LifecycleHooks adapter that feeds them. Hosts merge the
adapter into their own hooks and expose the standard promhttp handler.
*/
package observability
