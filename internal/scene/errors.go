package scene

import "errors"

var (
	// ErrReplayNotReady is returned by Replay when the replay policy does
	// not allow a reset from the current scene.
	ErrReplayNotReady = errors.New("scene: replay not available yet")

	// ErrUnknownScene is returned when parsing an unrecognised scene name.
	ErrUnknownScene = errors.New("scene: unknown scene")

	// ErrInvalidTimeline is returned for non-positive scene durations.
	ErrInvalidTimeline = errors.New("scene: invalid timeline")
)
