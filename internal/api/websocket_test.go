package api

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

func TestHub_BroadcastToSubscribed(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{ChannelSceneChanged: {}},
	}
	hub.Register(client)

	hub.Broadcast(ChannelSceneChanged, map[string]any{"to": "reveal"})

	select {
	case msg := <-client.send:
		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if wsMsg.Type != WSTypeEvent || wsMsg.EventType != ChannelSceneChanged {
			t.Errorf("message = %+v", wsMsg)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for broadcast message")
	}
}

func TestHub_NoMessageForUnsubscribed(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{ChannelEffectChanged: {}},
	}
	hub.Register(client)

	hub.Broadcast(ChannelSceneChanged, map[string]any{"to": "reveal"})

	select {
	case <-client.send:
		t.Error("unsubscribed client should not receive message")
	default:
	}
}

func TestHub_ClientCountAndShutdown(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := &WSClient{hub: hub, send: make(chan []byte, 1), subscriptions: map[string]struct{}{}}
	hub.Register(client)
	if hub.ClientCount() != 1 {
		t.Errorf("count = %d, want 1", hub.ClientCount())
	}

	cancel()
	<-done
	if hub.ClientCount() != 0 {
		t.Errorf("count after shutdown = %d, want 0", hub.ClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("send channel still open after shutdown")
	}

	// Unregister after shutdown must not double close.
	hub.Unregister(client)
}

func TestHub_FullBufferDropsMessage(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: map[string]struct{}{ChannelSceneChanged: {}},
	}
	hub.Register(client)

	hub.Broadcast(ChannelSceneChanged, 1)
	hub.Broadcast(ChannelSceneChanged, 2) // must not block
	if len(client.send) != 1 {
		t.Errorf("buffered = %d, want 1", len(client.send))
	}
}

// dialTestServer starts env's server and connects a WebSocket client.
func dialTestServer(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	if err := env.srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { env.srv.Close() }) //nolint:errcheck // test cleanup

	ws, resp, err := websocket.DefaultDialer.Dial("ws://"+env.srv.Addr()+"/api/v1/ws", nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v (resp: %v)", err, resp)
	}
	t.Cleanup(func() { ws.Close() })
	ws.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck // test deadline
	return ws
}

func subscribe(t *testing.T, ws *websocket.Conn, channels ...string) {
	t.Helper()
	if err := ws.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: channels},
	}); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read subscribe response: %v", err)
	}
	if resp.Type != WSTypeResponse || resp.ID != "sub-1" {
		t.Fatalf("subscribe response = %+v", resp)
	}
}

func TestWebSocket_SceneChanged(t *testing.T) {
	env := testServer(t, nil)
	ws := dialTestServer(t, env)
	subscribe(t, ws, ChannelSceneChanged)

	env.srv.SceneChanged(scene.Transition{
		From:       scene.Reveal,
		To:         scene.Celebration,
		Generation: 1,
		At:         t0.Add(9 * time.Second),
		Cause:      scene.CauseTimeline,
	})

	var msg struct {
		Type      string     `json:"type"`
		EventType string     `json:"event_type"`
		Payload   SceneEvent `json:"payload"`
	}
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if msg.EventType != ChannelSceneChanged || msg.Payload.To != scene.Celebration {
		t.Errorf("event = %+v", msg)
	}
	if msg.Payload.BackgroundIntensity != 0.7 {
		t.Errorf("background = %v, want 0.7", msg.Payload.BackgroundIntensity)
	}
}

func TestWebSocket_EffectChanged(t *testing.T) {
	env := testServer(t, nil)
	ws := dialTestServer(t, env)
	subscribe(t, ws, ChannelEffectChanged)

	env.srv.EffectChanged(effect.Sparkles, make([]particle.Particle, 25))

	var msg struct {
		Payload EffectEvent `json:"payload"`
	}
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if msg.Payload.Name != effect.Sparkles || !msg.Payload.Active || msg.Payload.Population != 25 {
		t.Errorf("payload = %+v", msg.Payload)
	}
}

func TestWebSocket_SubscribeUnsubscribe(t *testing.T) {
	env := testServer(t, nil)
	ws := dialTestServer(t, env)
	subscribe(t, ws, ChannelSceneChanged, ChannelEffectChanged)

	if err := ws.WriteJSON(WSMessage{
		Type:    WSTypeUnsubscribe,
		ID:      "unsub-1",
		Payload: WSSubscribePayload{Channels: []string{ChannelSceneChanged}},
	}); err != nil {
		t.Fatalf("write unsubscribe: %v", err)
	}
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read unsubscribe response: %v", err)
	}
	if resp.Type != WSTypeResponse || resp.ID != "unsub-1" {
		t.Errorf("unsubscribe response = %+v", resp)
	}

	// Only the effect event arrives.
	env.srv.SceneChanged(scene.Transition{To: scene.Reveal, Generation: 1})
	env.srv.EffectChanged(effect.Ambient, nil)
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if resp.EventType != ChannelEffectChanged {
		t.Errorf("event_type = %q, want effect.changed", resp.EventType)
	}
}

func TestWebSocket_PingAndErrors(t *testing.T) {
	env := testServer(t, nil)
	ws := dialTestServer(t, env)

	tests := []struct {
		name string
		send func() error
		want string
	}{
		{"ping", func() error { return ws.WriteJSON(WSMessage{Type: WSTypePing, ID: "p1"}) }, WSTypePong},
		{"invalid json", func() error { return ws.WriteMessage(websocket.TextMessage, []byte("not json")) }, WSTypeError},
		{"unknown type", func() error { return ws.WriteJSON(WSMessage{Type: "dance", ID: "x"}) }, WSTypeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.send(); err != nil {
				t.Fatalf("write: %v", err)
			}
			var resp WSMessage
			if err := ws.ReadJSON(&resp); err != nil {
				t.Fatalf("read: %v", err)
			}
			if resp.Type != tt.want {
				t.Errorf("type = %q, want %q", resp.Type, tt.want)
			}
		})
	}
}
