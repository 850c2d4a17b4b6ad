// Package http exposes a harbor.Manager as a JSON/text HTTP API routed with chi.
package http
