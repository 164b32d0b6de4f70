package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const speakerBuffer = 100 * time.Millisecond

// Speaker plays BirthdayMelody on the system audio device.
//
// The device is process-wide; create at most one Speaker.
type Speaker struct {
	rate  beep.SampleRate
	tempo int

	mu     sync.Mutex
	ctrl   *beep.Ctrl
	volume *effects.Volume
	level  float64
	closed bool
}

// NewSpeaker opens the audio device.
//
// Parameters:
//   - sampleRate: output sample rate in Hz
//   - tempo: melody tempo in beats per minute
//
// Returns:
//   - *Speaker: ready to Play
//   - error: wrapped ErrPlaybackUnavailable if the device cannot be opened
func NewSpeaker(sampleRate, tempo int) (*Speaker, error) {
	if sampleRate <= 0 || tempo <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d, tempo %d", ErrPlaybackUnavailable, sampleRate, tempo)
	}
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlaybackUnavailable, err)
	}
	return &Speaker{rate: rate, tempo: tempo}, nil
}

// Play restarts the melody from its first note at the current volume.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	speaker.Clear()

	vol := &effects.Volume{
		Streamer: NewMelody(s.rate, s.tempo, BirthdayMelody),
		Base:     2,
	}
	applyVolume(vol, s.level)
	s.volume = vol
	s.ctrl = &beep.Ctrl{Streamer: vol}

	speaker.Play(s.ctrl)
	return nil
}

// SetVolume implements Player.
func (s *Speaker) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = clampVolume(v)
	if s.volume == nil {
		return
	}
	speaker.Lock()
	applyVolume(s.volume, s.level)
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
	return nil
}

// applyVolume maps a linear level in [0, 1] onto beep's exponential
// volume: gain = 2^Volume.
func applyVolume(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}
