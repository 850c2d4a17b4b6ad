/*
Package harbor orchestrates a port collection and its persistence.

The collection, ports and codec are deliberately unsynchronized. Manager is the
single-writer gate in front of them: every mutation runs under one mutex, and
snapshot saves/loads additionally hold a per-key lock (reference-counted, so idle
keys are garbage collected) plus an optional distributed lock when several
processes share one store.
*/
package harbor
