/*
Package session implements session persistence orchestration.

It provides high-level abstractions for handling concurrent access to session
trees across multiple replicas, combining per-session local locks with an
optional distributed locker and a snapshot store. Every mutation of a given
session runs under its lock, extending the engine's single-writer-per-tree
discipline across processes.
*/
package session
