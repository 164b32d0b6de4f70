// Package api implements the HTTP REST API and WebSocket server for
// Cinematic Wish.
//
// It lets a browser or any other client drive and watch the experience:
//   - REST endpoints to read the current snapshot, start, replay, inspect
//     one effect's particles and list the session journal
//   - a WebSocket hub broadcasting "scene.changed" and "effect.changed"
//     events to subscribed clients
//   - the usual middleware stack (request ID, logging, recovery, CORS,
//     body size limit)
//
// The server is a scene and effect observer: register it with the
// experience and every transition is pushed to WebSocket clients.
//
//	srv, err := api.New(deps)
//	exp.Subscribe(srv)
//	exp.SubscribeEffects(srv)
//	srv.Start(ctx)
//	defer srv.Close()
package api
