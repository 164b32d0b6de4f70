package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "WISH_"

// ErrNotFound is returned by Load when the config file does not exist.
var ErrNotFound = errors.New("config file not found")

// Config is the root configuration structure for Cinematic Wish.
type Config struct {
	Timeline     TimelineConfig     `yaml:"timeline" envPrefix:"TIMELINE_"`
	Audio        AudioConfig        `yaml:"audio" envPrefix:"AUDIO_"`
	Effects      EffectsConfig      `yaml:"effects" envPrefix:"EFFECTS_"`
	Replay       ReplayConfig       `yaml:"replay" envPrefix:"REPLAY_"`
	Presentation PresentationConfig `yaml:"presentation" envPrefix:"PRESENTATION_"`
	Terminal     TerminalConfig     `yaml:"terminal" envPrefix:"TERMINAL_"`
	API          APIConfig          `yaml:"api" envPrefix:"API_"`
	WebSocket    WebSocketConfig    `yaml:"websocket" envPrefix:"WEBSOCKET_"`
	Database     DatabaseConfig     `yaml:"database" envPrefix:"DATABASE_"`
	MQTT         MQTTConfig         `yaml:"mqtt" envPrefix:"MQTT_"`
	InfluxDB     InfluxDBConfig     `yaml:"influxdb" envPrefix:"INFLUXDB_"`
	Logging      LoggingConfig      `yaml:"logging" envPrefix:"LOGGING_"`

	// Autostart begins the experience as soon as the process is ready.
	Autostart bool `yaml:"autostart" env:"AUTOSTART"`
}

// TimelineConfig sets how long each scene lasts.
type TimelineConfig struct {
	Awakening   time.Duration `yaml:"awakening" env:"AWAKENING"`
	Reveal      time.Duration `yaml:"reveal" env:"REVEAL"`
	Celebration time.Duration `yaml:"celebration" env:"CELEBRATION"`
	Settle      time.Duration `yaml:"settle" env:"SETTLE"`
}

// AudioConfig controls the soundtrack.
type AudioConfig struct {
	// Enabled opens the system audio device. When false, or when the device
	// cannot be opened, the experience runs silently.
	Enabled      bool          `yaml:"enabled" env:"ENABLED"`
	SampleRate   int           `yaml:"sample_rate" env:"SAMPLE_RATE"`
	Tempo        int           `yaml:"tempo" env:"TEMPO"`
	FadeStep     float64       `yaml:"fade_step" env:"FADE_STEP"`
	FadeInterval time.Duration `yaml:"fade_interval" env:"FADE_INTERVAL"`
	FadeCeiling  float64       `yaml:"fade_ceiling" env:"FADE_CEILING"`
}

// EffectsConfig tunes the particle effects.
type EffectsConfig struct {
	// ConfettiSpread is "wide" or "narrow".
	ConfettiSpread string `yaml:"confetti_spread" env:"CONFETTI_SPREAD"`

	// FireworksScenes lists scenes (by name) during which fireworks run.
	FireworksScenes []string `yaml:"fireworks_scenes" env:"FIREWORKS_SCENES" envSeparator:","`

	// Seed makes particle generation reproducible. 0 means random.
	Seed uint64 `yaml:"seed" env:"SEED"`
}

// ReplayConfig controls when a replay is accepted.
type ReplayConfig struct {
	// Policy is "closure-only" or "anytime".
	Policy string `yaml:"policy" env:"POLICY"`
}

// PresentationConfig holds the copy shown to the viewer.
type PresentationConfig struct {
	Recipient    string `yaml:"recipient" env:"RECIPIENT"`
	Prompt       string `yaml:"prompt" env:"PROMPT"`
	Awakening    string `yaml:"awakening" env:"AWAKENING"`
	OpeningLine  string `yaml:"opening_line" env:"OPENING_LINE"`
	SecondLine   string `yaml:"second_line" env:"SECOND_LINE"`
	Headline     string `yaml:"headline" env:"HEADLINE"`
	Wish         string `yaml:"wish" env:"WISH"`
	ClosingQuote string `yaml:"closing_quote" env:"CLOSING_QUOTE"`
	Signature    string `yaml:"signature" env:"SIGNATURE"`
}

// TerminalConfig controls the terminal front end.
type TerminalConfig struct {
	Enabled bool          `yaml:"enabled" env:"ENABLED"`
	FPS     int           `yaml:"fps" env:"FPS"`
	Quit    time.Duration `yaml:"quit_after" env:"QUIT_AFTER"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled" env:"ENABLED"`
	Host     string           `yaml:"host" env:"HOST"`
	Port     int              `yaml:"port" env:"PORT"`
	Timeouts APITimeoutConfig `yaml:"timeouts" envPrefix:"TIMEOUT_"`
	CORS     CORSConfig       `yaml:"cors" envPrefix:"CORS_"`

	// PanelDir serves the browser viewer from disk instead of the
	// embedded copy when set.
	PanelDir string `yaml:"panel_dir" env:"PANEL_DIR"`
}

// APITimeoutConfig contains HTTP timeouts in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read" env:"READ"`
	Write int `yaml:"write" env:"WRITE"`
	Idle  int `yaml:"idle" env:"IDLE"`
}

// CORSConfig lists allowed browser origins.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// WebSocketConfig contains WebSocket hub settings.
type WebSocketConfig struct {
	Path           string `yaml:"path" env:"PATH"`
	MaxMessageSize int    `yaml:"max_message_size" env:"MAX_MESSAGE_SIZE"`
	PingInterval   int    `yaml:"ping_interval" env:"PING_INTERVAL"`
	PongTimeout    int    `yaml:"pong_timeout" env:"PONG_TIMEOUT"`
}

// DatabaseConfig contains SQLite settings for the session journal.
type DatabaseConfig struct {
	// Path is ":memory:" (default) or a file path.
	Path        string `yaml:"path" env:"PATH"`
	WALMode     bool   `yaml:"wal_mode" env:"WAL_MODE"`
	BusyTimeout int    `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
}

// MQTTConfig contains broker settings for the lighting bridge.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled" env:"ENABLED"`
	TopicPrefix string              `yaml:"topic_prefix" env:"TOPIC_PREFIX"`
	Broker      MQTTBrokerConfig    `yaml:"broker" envPrefix:"BROKER_"`
	Auth        MQTTAuthConfig      `yaml:"auth" envPrefix:"AUTH_"`
	QoS         int                 `yaml:"qos" env:"QOS"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect" envPrefix:"RECONNECT_"`
}

// MQTTBrokerConfig contains broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	TLS      bool   `yaml:"tls" env:"TLS"`
	ClientID string `yaml:"client_id" env:"CLIENT_ID"`
}

// MQTTAuthConfig contains broker credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
}

// MQTTReconnectConfig contains reconnection delays in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay" env:"INITIAL_DELAY"`
	MaxDelay     int `yaml:"max_delay" env:"MAX_DELAY"`
}

// InfluxDBConfig contains telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled" env:"ENABLED"`
	URL           string `yaml:"url" env:"URL"`
	Token         string `yaml:"token" env:"TOKEN"`
	Org           string `yaml:"org" env:"ORG"`
	Bucket        string `yaml:"bucket" env:"BUCKET"`
	BatchSize     int    `yaml:"batch_size" env:"BATCH_SIZE"`
	FlushInterval int    `yaml:"flush_interval" env:"FLUSH_INTERVAL"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
	Output string `yaml:"output" env:"OUTPUT"`
}

// Load builds the configuration.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, when path is non-empty
//  3. Environment variables (WISH_SECTION_KEY)
//
// Parameters:
//   - path: YAML file, or "" for defaults plus environment only
//
// Returns:
//   - *Config: loaded and validated configuration
//   - error: ErrNotFound if path does not exist, or a parse/validation error
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv copies variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		Timeline: TimelineConfig{
			Awakening:   3 * time.Second,
			Reveal:      6 * time.Second,
			Celebration: 5 * time.Second,
			Settle:      500 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled:      false,
			SampleRate:   44100,
			Tempo:        120,
			FadeStep:     0.02,
			FadeInterval: 100 * time.Millisecond,
			FadeCeiling:  0.5,
		},
		Effects: EffectsConfig{
			ConfettiSpread: "wide",
		},
		Replay: ReplayConfig{
			Policy: "closure-only",
		},
		Presentation: PresentationConfig{
			Recipient:    "Riti",
			Prompt:       "A Special Moment Awaits",
			Awakening:    "Close your eyes for a moment...",
			OpeningLine:  "On this beautiful day,",
			SecondLine:   "the stars aligned to celebrate",
			Headline:     "Happy Birthday!",
			Wish:         "May this year bring you endless joy, beautiful surprises, and all the love your heart can hold.",
			ClosingQuote: "Here's to another year of beautiful memories",
			Signature:    "With all my love",
		},
		Terminal: TerminalConfig{
			Enabled: false,
			FPS:     20,
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8080,
			Timeouts: APITimeoutConfig{
				Read:  15,
				Write: 15,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Database: DatabaseConfig{
			Path:        ":memory:",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled:     false,
			TopicPrefix: "cinematic-wish",
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "cinematic-wish",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			URL:           "http://localhost:8086",
			Org:           "cinematic-wish",
			Bucket:        "cinematic-wish",
			BatchSize:     100,
			FlushInterval: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

var knownScenes = []string{"idle", "awakening", "reveal", "celebration", "closure"}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []string

	t := c.Timeline
	if t.Awakening <= 0 || t.Reveal <= 0 || t.Celebration <= 0 {
		errs = append(errs, "timeline durations must be positive")
	}
	if t.Settle < 0 {
		errs = append(errs, "timeline.settle must not be negative")
	}

	a := c.Audio
	if a.FadeStep <= 0 || a.FadeCeiling <= 0 || a.FadeCeiling > 1 {
		errs = append(errs, "audio.fade_step must be positive and audio.fade_ceiling in (0, 1]")
	}
	if a.FadeInterval <= 0 {
		errs = append(errs, "audio.fade_interval must be positive")
	}
	if a.Enabled && (a.SampleRate <= 0 || a.Tempo <= 0) {
		errs = append(errs, "audio.sample_rate and audio.tempo must be positive")
	}

	switch c.Effects.ConfettiSpread {
	case "wide", "narrow":
	default:
		errs = append(errs, fmt.Sprintf("effects.confetti_spread %q must be wide or narrow", c.Effects.ConfettiSpread))
	}
	for _, s := range c.Effects.FireworksScenes {
		if !contains(knownScenes, strings.ToLower(strings.TrimSpace(s))) {
			errs = append(errs, fmt.Sprintf("effects.fireworks_scenes: unknown scene %q", s))
		}
	}

	switch c.Replay.Policy {
	case "closure-only", "anytime":
	default:
		errs = append(errs, fmt.Sprintf("replay.policy %q must be closure-only or anytime", c.Replay.Policy))
	}

	if c.Presentation.Recipient == "" {
		errs = append(errs, "presentation.recipient is required")
	}

	if c.Terminal.Enabled && c.Terminal.FPS <= 0 {
		errs = append(errs, "terminal.fps must be positive")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
	}

	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Bucket == "") {
		errs = append(errs, "influxdb.url and influxdb.bucket are required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
