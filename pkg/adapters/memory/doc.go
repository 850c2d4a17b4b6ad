// Package memory provides an in-process SnapshotStore, used by tests and by the CLI's
// "memory" backend.
package memory
