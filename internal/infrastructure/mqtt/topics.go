package mqtt

import "strings"

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "cinematic-wish"

// Topics builds the topic names used by the experience.
//
//	topics := mqtt.NewTopics("party")
//	topics.SceneState() // "party/scene/state"
type Topics struct {
	prefix string
}

// NewTopics returns builders rooted at prefix. Surrounding slashes are
// trimmed; an empty prefix means DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the root of every topic.
func (t Topics) Prefix() string {
	if t.prefix == "" {
		return DefaultTopicPrefix
	}
	return t.prefix
}

// Status returns the online/offline status topic.
//
// Example: cinematic-wish/status
func (t Topics) Status() string {
	return t.Prefix() + "/status"
}

// SceneState returns the retained current-scene topic.
//
// Example: cinematic-wish/scene/state
func (t Topics) SceneState() string {
	return t.Prefix() + "/scene/state"
}

// EffectState returns the retained state topic for one effect.
//
// Example: cinematic-wish/effect/confetti/state
func (t Topics) EffectState(name string) string {
	return t.Prefix() + "/effect/" + name + "/state"
}

// LightingBackground returns the brightness command topic.
//
// Example: cinematic-wish/lighting/background
func (t Topics) LightingBackground() string {
	return t.Prefix() + "/lighting/background"
}

// Command returns the inbound control topic.
//
// Example: cinematic-wish/command
func (t Topics) Command() string {
	return t.Prefix() + "/command"
}

// AllEffectStates returns a pattern matching every effect state topic.
//
// Pattern: cinematic-wish/effect/+/state
func (t Topics) AllEffectStates() string {
	return t.Prefix() + "/effect/+/state"
}

// All returns a pattern matching every topic under the prefix.
//
// Pattern: cinematic-wish/#
func (t Topics) All() string {
	return t.Prefix() + "/#"
}
