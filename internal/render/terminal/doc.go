// Package terminal renders the experience in a terminal with tcell.
//
// Each frame paints a radial background glow whose strength follows the
// scene's background intensity, then the live particles of every active
// effect, then the scene's text cues centred on screen.
//
// Keys:
//
//	Enter        start, or replay once the run is over
//	q, Esc, ^C   quit
package terminal
