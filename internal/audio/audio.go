// Package audio provides the ambient soundtrack collaborator of the
// experience: a small Player interface, the volume fade-in process that
// starts with the Awakening scene, and a synthesised implementation built on
// gopxl/beep.
//
// Audio is best-effort. Playback errors are reported to the caller, who is
// expected to log and carry on; nothing in the scene timeline waits on audio.
package audio

import "errors"

// Player is the audio device seen by the sequencer.
type Player interface {
	// Play starts (or resumes) playback. Errors mean the environment
	// refused playback; callers must not treat them as fatal.
	Play() error

	// SetVolume sets the linear output volume in [0, 1].
	SetVolume(v float64)
}

var (
	// ErrPlaybackUnavailable is returned when no audio device can be opened.
	ErrPlaybackUnavailable = errors.New("audio: playback unavailable")

	// ErrClosed is returned when playing through a closed player.
	ErrClosed = errors.New("audio: player closed")
)

// Silent is a Player that accepts every call and produces no sound.
// It records the last volume so headless runs can still report it.
type Silent struct {
	volume float64
	plays  int
}

// Play implements Player.
func (s *Silent) Play() error {
	s.plays++
	return nil
}

// SetVolume implements Player.
func (s *Silent) SetVolume(v float64) {
	s.volume = clampVolume(v)
}

// Volume returns the last volume set.
func (s *Silent) Volume() float64 {
	return s.volume
}

// Plays returns how many times Play was called.
func (s *Silent) Plays() int {
	return s.plays
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
