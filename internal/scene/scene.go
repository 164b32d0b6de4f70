package scene

import (
	"fmt"
	"strings"
)

// Scene is one stage of the experience. Values are ordered along the
// timeline so scenes can be compared with < and >.
type Scene int

const (
	Idle Scene = iota
	Awakening
	Reveal
	Celebration
	Closure
)

var sceneNames = [...]string{
	Idle:        "idle",
	Awakening:   "awakening",
	Reveal:      "reveal",
	Celebration: "celebration",
	Closure:     "closure",
}

// All lists every scene in timeline order.
func All() []Scene {
	return []Scene{Idle, Awakening, Reveal, Celebration, Closure}
}

// String returns the lowercase scene name.
func (s Scene) String() string {
	if s < Idle || s > Closure {
		return fmt.Sprintf("scene(%d)", int(s))
	}
	return sceneNames[s]
}

// Valid reports whether s is a known scene.
func (s Scene) Valid() bool {
	return s >= Idle && s <= Closure
}

// ParseScene converts a scene name (case-insensitive) to a Scene.
func ParseScene(name string) (Scene, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, n := range sceneNames {
		if n == needle {
			return Scene(i), nil
		}
	}
	return Idle, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Scene) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScene, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scene) UnmarshalText(text []byte) error {
	parsed, err := ParseScene(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// BackgroundIntensity is the opacity of the centre glow for a scene.
func (s Scene) BackgroundIntensity() float64 {
	switch s {
	case Awakening:
		return 0.3
	case Reveal:
		return 0.5
	case Celebration, Closure:
		return 0.7
	default:
		return 0
	}
}
