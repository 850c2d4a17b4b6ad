// Package tui renders ports as text for terminals: a markdown grid that mirrors the
// on-screen layout of places, styled with glamour when stdout is a TTY.
package tui
