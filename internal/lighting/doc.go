// Package lighting mirrors the experience onto MQTT.
//
// On every scene transition the Bridge publishes the retained scene state
// and a brightness command derived from the scene's background intensity,
// so smart lights can glow along with the screen. Effects publish a
// retained state when they start or stop.
//
// Publishing happens on a dedicated worker fed by a bounded queue; scene
// callbacks never wait for the broker. When the queue is full, messages
// are dropped and counted.
//
// The Bridge also turns messages on the command topic into Start, Replay
// or Advance calls, so a physical switch can run the show.
package lighting
