// Package influxdb records experience telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes and health checks.
//
// # Measurements
//
//	scene_transition   tags: from, to, cause        fields: generation, background_intensity
//	effect_population  tags: effect                 fields: population
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteEffectPopulation("confetti", 80, time.Now())
package influxdb
