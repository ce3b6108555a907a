package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNodeNotFound is returned when a node ID is not part of the tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when a node ID is added to a tree twice.
var ErrDuplicateNode = errors.New("duplicate node id")

// ErrAlreadyAttached is returned when attaching a node that has a parent.
var ErrAlreadyAttached = errors.New("node already attached")

// ErrNotAttached is returned when detaching a node that has no parent.
var ErrNotAttached = errors.New("node not attached")

// ErrCyclicAttach is returned when an attach would make a node its own ancestor.
var ErrCyclicAttach = errors.New("attach would create a cycle")

// ErrChannelNotFound is returned when no channel with the given name is
// registered on the node.
var ErrChannelNotFound = errors.New("channel not found")

// ErrDuplicateChannel is returned when a channel name is registered twice on
// the same node.
var ErrDuplicateChannel = errors.New("duplicate channel")

// ErrUnknownChannelKind is returned at registration time for an unrecognized
// channel kind.
var ErrUnknownChannelKind = errors.New("unknown channel kind")

// ErrUnknownOverrideMode is returned at registration time for an unrecognized
// override mode.
var ErrUnknownOverrideMode = errors.New("unknown override mode")
