package lighting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/mqtt"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// ErrUnknownCommand is returned for command payloads that name no action.
var ErrUnknownCommand = errors.New("lighting: unknown command")

const (
	defaultQueueSize      = 64
	defaultTransition     = time.Second
	defaultCommandTimeout = 5 * time.Second
)

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Publisher is the subset of the MQTT client the bridge needs.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
	PublishEvent(topic string, payload []byte) error
}

// Controller is what remote commands drive.
type Controller interface {
	Start(ctx context.Context) error
	Replay(ctx context.Context) error
	Advance(ctx context.Context) error
}

// Options tunes the bridge.
type Options struct {
	// QueueSize bounds the number of unsent messages.
	QueueSize int

	// Transition is the light fade time sent with brightness commands.
	Transition time.Duration
}

// SceneState is the retained payload on the scene state topic.
type SceneState struct {
	Scene               scene.Scene `json:"scene"`
	From                scene.Scene `json:"from"`
	Generation          uint64      `json:"generation"`
	Cause               scene.Cause `json:"cause"`
	BackgroundIntensity float64     `json:"background_intensity"`
	At                  time.Time   `json:"at"`
}

// BrightnessCommand is the payload on the lighting topic.
type BrightnessCommand struct {
	Brightness   int         `json:"brightness"`
	TransitionMS int64       `json:"transition_ms"`
	Scene        scene.Scene `json:"scene"`
}

// EffectState is the retained payload on an effect state topic.
type EffectState struct {
	Effect     effect.Name `json:"effect"`
	Active     bool        `json:"active"`
	Population int         `json:"population"`
}

type message struct {
	topic    string
	payload  []byte
	retained bool
}

// Bridge publishes scene and effect changes to MQTT. It implements
// scene.Observer and experience.EffectObserver.
type Bridge struct {
	pub        Publisher
	topics     mqtt.Topics
	logger     Logger
	transition time.Duration

	queue   chan message
	dropped atomic.Uint64

	mu     sync.Mutex
	active map[effect.Name]bool
}

// NewBridge creates a bridge. Call Run to start publishing.
//
// Parameters:
//   - pub: MQTT publisher
//   - topics: topic builders
//   - opts: queue and transition settings (zero values use defaults)
//   - logger: Logger instance (nil for no logging)
func NewBridge(pub Publisher, topics mqtt.Topics, opts Options, logger Logger) *Bridge {
	if logger == nil {
		logger = noopLogger{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Transition <= 0 {
		opts.Transition = defaultTransition
	}
	return &Bridge{
		pub:        pub,
		topics:     topics,
		logger:     logger,
		transition: opts.Transition,
		queue:      make(chan message, opts.QueueSize),
		active:     make(map[effect.Name]bool),
	}
}

// Brightness converts a background intensity in [0, 1] to a percentage.
func Brightness(intensity float64) int {
	return int(math.Round(math.Max(0, math.Min(1, intensity)) * 100))
}

// SceneChanged implements scene.Observer.
func (b *Bridge) SceneChanged(t scene.Transition) {
	intensity := t.To.BackgroundIntensity()

	b.enqueue(b.topics.SceneState(), SceneState{
		Scene:               t.To,
		From:                t.From,
		Generation:          t.Generation,
		Cause:               t.Cause,
		BackgroundIntensity: intensity,
		At:                  t.At,
	}, true)

	b.enqueue(b.topics.LightingBackground(), BrightnessCommand{
		Brightness:   Brightness(intensity),
		TransitionMS: b.transition.Milliseconds(),
		Scene:        t.To,
	}, false)
}

// EffectChanged publishes effect state when an effect starts or stops.
// Population changes while running are not published.
func (b *Bridge) EffectChanged(name effect.Name, ps []particle.Particle) {
	active := len(ps) > 0

	b.mu.Lock()
	was := b.active[name]
	b.active[name] = active
	b.mu.Unlock()

	if was == active {
		return
	}
	b.enqueue(b.topics.EffectState(string(name)), EffectState{
		Effect:     name,
		Active:     active,
		Population: len(ps),
	}, true)
}

func (b *Bridge) enqueue(topic string, v any, retained bool) {
	payload, err := json.Marshal(v)
	if err != nil {
		b.logger.Warn("lighting payload encoding failed", "topic", topic, "error", err)
		return
	}

	select {
	case b.queue <- message{topic: topic, payload: payload, retained: retained}:
	default:
		n := b.dropped.Add(1)
		b.logger.Warn("lighting queue full, message dropped", "topic", topic, "dropped", n)
	}
}

// Dropped returns how many messages were discarded because the queue was full.
func (b *Bridge) Dropped() uint64 {
	return b.dropped.Load()
}

// Run publishes queued messages until ctx is cancelled, then drains what
// is already queued and returns nil.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case m := <-b.queue:
			b.publish(m)
		case <-ctx.Done():
			for {
				select {
				case m := <-b.queue:
					b.publish(m)
				default:
					return nil
				}
			}
		}
	}
}

func (b *Bridge) publish(m message) {
	var err error
	if m.retained {
		err = b.pub.PublishRetained(m.topic, m.payload)
	} else {
		err = b.pub.PublishEvent(m.topic, m.payload)
	}
	if err != nil {
		b.logger.Warn("lighting publish failed", "topic", m.topic, "error", err)
		return
	}
	b.logger.Debug("lighting published", "topic", m.topic)
}

// command is the JSON form of a control message. A bare word such as
// "start" is accepted too.
type command struct {
	Action string `json:"action"`
}

// ParseCommand extracts the action from a command payload.
func ParseCommand(payload []byte) (string, error) {
	text := strings.TrimSpace(string(payload))
	if strings.HasPrefix(text, "{") {
		var c command
		if err := json.Unmarshal([]byte(text), &c); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnknownCommand, err)
		}
		text = c.Action
	}

	action := strings.ToLower(strings.TrimSpace(text))
	switch action {
	case "start", "replay", "advance":
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, text)
	}
}

// CommandHandler returns an MQTT handler that forwards commands to ctrl.
func (b *Bridge) CommandHandler(ctrl Controller) mqtt.MessageHandler {
	return func(_ string, payload []byte) error {
		action, err := ParseCommand(payload)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), defaultCommandTimeout)
		defer cancel()

		switch action {
		case "start":
			err = ctrl.Start(ctx)
		case "replay":
			err = ctrl.Replay(ctx)
		default:
			err = ctrl.Advance(ctx)
		}
		if err != nil {
			return fmt.Errorf("remote %s: %w", action, err)
		}
		b.logger.Debug("remote command applied", "action", action)
		return nil
	}
}
