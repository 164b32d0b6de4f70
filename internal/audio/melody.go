package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Note is one pitch of a melody. A zero Freq is a rest.
type Note struct {
	Freq  float64
	Beats float64
}

// Pitches used by BirthdayMelody, in Hz.
const (
	noteG4 = 392.00
	noteA4 = 440.00
	noteB4 = 493.88
	noteC5 = 523.25
	noteD5 = 587.33
	noteE5 = 659.25
	noteF5 = 698.46
	noteG5 = 783.99
)

// BirthdayMelody is the soundtrack, looped for as long as playback runs.
var BirthdayMelody = []Note{
	{noteG4, 0.75}, {noteG4, 0.25}, {noteA4, 1}, {noteG4, 1}, {noteC5, 1}, {noteB4, 2},
	{noteG4, 0.75}, {noteG4, 0.25}, {noteA4, 1}, {noteG4, 1}, {noteD5, 1}, {noteC5, 2},
	{noteG4, 0.75}, {noteG4, 0.25}, {noteG5, 1}, {noteE5, 1}, {noteC5, 1}, {noteB4, 1}, {noteA4, 2},
	{noteF5, 0.75}, {noteF5, 0.25}, {noteE5, 1}, {noteC5, 1}, {noteD5, 1}, {noteC5, 2},
	{0, 2},
}

const (
	melodyAmplitude = 0.3
	noteAttack      = 10 * time.Millisecond
	noteRelease     = 60 * time.Millisecond
)

// melody streams sine notes with a short attack/release envelope and
// loops forever.
type melody struct {
	rate           beep.SampleRate
	notes          []Note
	samplesPerBeat float64
	attack         int
	release        int

	idx     int
	pos     int
	noteLen int
	phase   float64
}

// NewMelody returns an endless streamer playing notes at tempo (beats per
// minute).
func NewMelody(rate beep.SampleRate, tempo int, notes []Note) beep.Streamer {
	m := &melody{
		rate:           rate,
		notes:          notes,
		samplesPerBeat: float64(rate) * 60 / float64(tempo),
		attack:         rate.N(noteAttack),
		release:        rate.N(noteRelease),
	}
	m.noteLen = m.lengthOf(0)
	return m
}

// lengthOf never returns less than one sample so Stream always advances.
func (m *melody) lengthOf(i int) int {
	return max(1, int(math.Round(m.notes[i].Beats*m.samplesPerBeat)))
}

func (m *melody) Stream(samples [][2]float64) (n int, ok bool) {
	if len(m.notes) == 0 {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}

	for i := range samples {
		for m.pos >= m.noteLen {
			m.idx = (m.idx + 1) % len(m.notes)
			m.pos = 0
			m.phase = 0
			m.noteLen = m.lengthOf(m.idx)
		}

		var val float64
		if freq := m.notes[m.idx].Freq; freq > 0 {
			val = melodyAmplitude * m.envelope() * math.Sin(2*math.Pi*m.phase)
			m.phase += freq / float64(m.rate)
			m.phase -= math.Floor(m.phase)
		}

		samples[i][0] = val
		samples[i][1] = val
		m.pos++
	}
	return len(samples), true
}

func (m *melody) envelope() float64 {
	env := 1.0
	if m.attack > 0 && m.pos < m.attack {
		env = float64(m.pos) / float64(m.attack)
	}
	if left := m.noteLen - m.pos; m.release > 0 && left < m.release {
		env = math.Min(env, float64(left)/float64(m.release))
	}
	return env
}

func (m *melody) Err() error { return nil }
