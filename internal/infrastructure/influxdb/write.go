package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementSceneTransition  = "scene_transition"
	MeasurementEffectPopulation = "effect_population"
)

// WriteSceneTransition records one scene change.
//
// Parameters:
//   - from, to: scene names
//   - cause: what triggered the change (start, timeline, replay)
//   - generation: run generation the transition belongs to
//   - background: background intensity of the new scene
//   - at: transition time
func (c *Client) WriteSceneTransition(from, to, cause string, generation uint64, background float64, at time.Time) {
	c.WritePointWithTime(MeasurementSceneTransition,
		map[string]string{
			"from":  from,
			"to":    to,
			"cause": cause,
		},
		map[string]any{
			"generation":           int64(generation), //nolint:gosec // generations stay far below 2^63
			"background_intensity": background,
		},
		at,
	)
}

// WriteEffectPopulation records the live particle count of one effect.
func (c *Client) WriteEffectPopulation(effect string, population int, at time.Time) {
	c.WritePointWithTime(MeasurementEffectPopulation,
		map[string]string{"effect": effect},
		map[string]any{"population": population},
		at,
	)
}

// WritePoint writes a custom point stamped with the current time.
//
// Example:
//
//	client.WritePoint("audio_fade",
//	    map[string]string{"run": runID},
//	    map[string]any{"volume": 0.5})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime writes a custom point with an explicit timestamp.
// Points written while disconnected are dropped.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
