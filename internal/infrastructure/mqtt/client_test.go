package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled:     true,
		TopicPrefix: "wish-test",
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "cinematic-wish-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errs = append(l.errs, msg)
	l.mu.Unlock()
}

func TestTopics(t *testing.T) {
	topics := NewTopics("/party/")

	tests := []struct {
		got, want string
	}{
		{topics.Status(), "party/status"},
		{topics.SceneState(), "party/scene/state"},
		{topics.EffectState("confetti"), "party/effect/confetti/state"},
		{topics.LightingBackground(), "party/lighting/background"},
		{topics.Command(), "party/command"},
		{topics.AllEffectStates(), "party/effect/+/state"},
		{topics.All(), "party/#"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}

	if got := NewTopics("").Status(); got != "cinematic-wish/status" {
		t.Errorf("default prefix status = %q", got)
	}
	if got := (Topics{}).SceneState(); got != "cinematic-wish/scene/state" {
		t.Errorf("zero Topics scene state = %q", got)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "wish", Password: "secret"}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "cinematic-wish-test" || opts.Username != "wish" || opts.Password != "secret" {
		t.Errorf("identity = %q/%q", opts.ClientID, opts.Username)
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("expected auto-reconnect and clean session")
	}
	if opts.MaxReconnectInterval != 5*time.Second || opts.ConnectRetryInterval != time.Second {
		t.Errorf("reconnect intervals = %v / %v", opts.ConnectRetryInterval, opts.MaxReconnectInterval)
	}
	if opts.TLSConfig != nil && opts.TLSConfig.MinVersion != 0 {
		t.Error("TLS configured without broker.tls")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)
	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("scheme = %q, want ssl", opts.Servers[0].Scheme)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS minimum version not set")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, NewTopics("wish-test"), "cinematic-wish-test")

	if !opts.WillEnabled || !opts.WillRetained || opts.WillTopic != "wish-test/status" {
		t.Errorf("will = enabled %v retained %v topic %q", opts.WillEnabled, opts.WillRetained, opts.WillTopic)
	}

	var status statusPayload
	if err := json.Unmarshal(opts.WillPayload, &status); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if status.Status != "offline" || status.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", status)
	}
}

func TestBuildStatusPayload(t *testing.T) {
	at := time.Date(2026, 3, 14, 18, 0, 0, 0, time.FixedZone("IST", 19800))
	payload := buildStatusPayload("online", "wish", "", at)

	if strings.Contains(string(payload), "reason") {
		t.Errorf("empty reason serialised: %s", payload)
	}
	var status statusPayload
	if err := json.Unmarshal(payload, &status); err != nil {
		t.Fatal(err)
	}
	if status.Timestamp != "2026-03-14T12:30:00Z" {
		t.Errorf("Timestamp = %q, want UTC", status.Timestamp)
	}
}

func TestPublish_Validation(t *testing.T) {
	c := newClient(testConfig())

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		want    error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "t", []byte("x"), 3, ErrInvalidQoS},
		{"oversized", "t", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", "t", []byte("x"), 1, ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Publish(tt.topic, tt.payload, tt.qos, false); !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := c.PublishRetained("t", []byte("x")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishRetained() error = %v", err)
	}
	if err := c.PublishEvent("t", []byte("x")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishEvent() error = %v", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := newClient(testConfig())
	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v", err)
	}
	if err := c.Subscribe("t", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad qos error = %v", err)
	}
	if err := c.Subscribe("t", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v", err)
	}
	if err := c.Subscribe("t", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected error = %v", err)
	}
	if c.SubscriptionCount() != 0 || c.HasSubscription("t") {
		t.Error("failed subscription was tracked")
	}
	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v", err)
	}
}

func TestQoSFallback(t *testing.T) {
	cfg := testConfig()
	cfg.QoS = 7
	if got := newClient(cfg).qos(); got != 1 {
		t.Errorf("qos() = %d, want 1", got)
	}
	cfg.QoS = 2
	if got := newClient(cfg).qos(); got != 2 {
		t.Errorf("qos() = %d, want 2", got)
	}
}

func TestDispatch_ErrorsAndPanics(t *testing.T) {
	c := newClient(testConfig())
	logger := &recordingLogger{}
	c.SetLogger(logger)

	c.dispatch(func(string, []byte) error { return errors.New("bad command") }, "t", nil)
	c.dispatch(func(string, []byte) error { panic("boom") }, "t", nil)
	c.dispatch(func(string, []byte) error { return nil }, "t", nil)

	if len(logger.warns) != 1 || len(logger.errs) != 1 {
		t.Errorf("warns = %v, errs = %v", logger.warns, logger.errs)
	}
}

func TestCloseAndHealthWithoutConnection(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
	if err := newClient(testConfig()).HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newClient(testConfig()).HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) error = %v", err)
	}
}

func TestConnect_InvalidBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("dials the network")
	}
	cfg := testConfig()
	cfg.Broker.Port = 1 // nothing listens here
	cfg.Reconnect.InitialDelay = 0

	client, err := Connect(cfg)
	if err == nil {
		client.Close() //nolint:errcheck // unexpected success
		t.Skip("a broker answered on port 1")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}
