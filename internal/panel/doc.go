// Package panel serves the browser viewer for the experience.
//
// The viewer is a small static page embedded into the binary with go:embed.
// It reads the experience over the HTTP API and follows scene and effect
// changes over the WebSocket, so it needs no build step of its own.
//
// Responses carry no-cache headers; the assets are small and change with
// the binary.
package panel
