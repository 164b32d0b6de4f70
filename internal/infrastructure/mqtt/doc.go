// Package mqtt provides MQTT client connectivity for Cinematic Wish.
//
// The experience uses MQTT to drive room lighting along with the scenes
// and to accept remote start/replay commands (for example from a wall
// switch or a home automation hub).
//
//	Cinematic Wish ↔ MQTT Broker ↔ Lighting controller / switches
//
// The package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS and retained state
//   - Subscriptions that are restored after a reconnect
//   - Last Will and Testament (LWT) so subscribers see the process go away
//
// # Topics
//
// Every topic lives under a configurable prefix (default "cinematic-wish"):
//
//	cinematic-wish/status               online/offline (retained, LWT)
//	cinematic-wish/scene/state          current scene (retained)
//	cinematic-wish/lighting/background  brightness command
//	cinematic-wish/command              inbound start/replay/advance
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishRetained(client.Topics().SceneState(), payload)
package mqtt
