package scene

import "time"

// Greeting is the text content of the experience.
type Greeting struct {
	Recipient    string `yaml:"recipient"`
	Prompt       string `yaml:"prompt"`
	Awakening    string `yaml:"awakening"`
	OpeningLine  string `yaml:"opening_line"`
	SecondLine   string `yaml:"second_line"`
	Headline     string `yaml:"headline"`
	Wish         string `yaml:"wish"`
	ClosingQuote string `yaml:"closing_quote"`
	Signature    string `yaml:"signature"`
}

// DefaultGreeting returns the stock birthday copy.
func DefaultGreeting() Greeting {
	return Greeting{
		Recipient:    "Riti",
		Prompt:       "A Special Moment Awaits",
		Awakening:    "Close your eyes for a moment...",
		OpeningLine:  "On this beautiful day,",
		SecondLine:   "the stars aligned to celebrate",
		Headline:     "Happy Birthday!",
		Wish:         "May this year bring you endless joy, beautiful surprises, and all the love your heart can hold.",
		ClosingQuote: "Here's to another year of beautiful memories",
		Signature:    "With all my love",
	}
}

// Line is a piece of text revealed after Delay from the scene entry.
type Line struct {
	Text     string        `json:"text"`
	Delay    time.Duration `json:"delay"`
	Emphasis bool          `json:"emphasis,omitempty"`
}

// Message is a titled block of text.
type Message struct {
	Title string        `json:"title,omitempty"`
	Body  string        `json:"body"`
	Delay time.Duration `json:"delay"`
}

// Cues tells a presentation layer what to show in a scene. Delays are
// relative to the moment the scene was entered.
type Cues struct {
	StartButton bool          `json:"start_button"`
	Prompt      string        `json:"prompt,omitempty"`
	Awakening   string        `json:"awakening,omitempty"`
	RevealLines []Line        `json:"reveal_lines,omitempty"`
	Cake        bool          `json:"cake"`
	CakeDelay   time.Duration `json:"cake_delay,omitempty"`
	Birthday    *Message      `json:"birthday,omitempty"`
	Photo       bool          `json:"photo"`
	PhotoDelay  time.Duration `json:"photo_delay,omitempty"`
	Closing     *Message      `json:"closing,omitempty"`
	Actions     bool          `json:"actions"`
}

// CuesFor returns the presentation cues of scene s.
func CuesFor(s Scene, g Greeting) Cues {
	switch s {
	case Idle:
		return Cues{StartButton: true, Prompt: g.Prompt}
	case Awakening:
		return Cues{Awakening: g.Awakening}
	}

	c := Cues{
		RevealLines: []Line{
			{Text: g.OpeningLine, Delay: 0},
			{Text: g.SecondLine, Delay: 800 * time.Millisecond},
			{Text: g.Recipient, Delay: 1800 * time.Millisecond, Emphasis: true},
		},
	}
	if s >= Celebration {
		c.Cake = true
		c.CakeDelay = 500 * time.Millisecond
		c.Birthday = &Message{Title: g.Headline, Body: g.Wish, Delay: time.Second}
	}
	if s == Closure {
		c.Photo = true
		c.PhotoDelay = 500 * time.Millisecond
		c.Closing = &Message{Title: g.ClosingQuote, Body: g.Signature, Delay: 2 * time.Second}
		c.Actions = true
	}
	return c
}
