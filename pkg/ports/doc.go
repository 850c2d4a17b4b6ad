/*
Package ports defines the driven ports (interfaces) for the harbor manager.

These interfaces decouple the port collection from external implementations, allowing
snapshots of the collection to live in memory, on disk, in Redis or in SQLite.

# Key Interfaces

  - SnapshotStore: Persists and loads the text form of a collection under a key.
  - DistributedLocker: Provides distributed locking for handling concurrent snapshot access.
*/
package ports
