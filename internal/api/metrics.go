package api

import (
	"database/sql"
	"net/http"
	"runtime"
	"time"
)

// DBStatser exposes connection pool statistics.
type DBStatser interface {
	Stats() sql.DBStats
}

// LightingStats exposes the MQTT lighting bridge state.
type LightingStats interface {
	IsConnected() bool
	Dropped() uint64
}

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string            `json:"timestamp"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Runtime       RuntimeMetrics    `json:"runtime"`
	WebSocket     WSMetrics         `json:"websocket"`
	Experience    ExperienceMetrics `json:"experience"`
	Lighting      *LightingMetrics  `json:"lighting,omitempty"`
	Database      *DatabaseMetrics  `json:"database,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// ExperienceMetrics summarises the live experience.
type ExperienceMetrics struct {
	Scene         string `json:"scene"`
	Generation    uint64 `json:"generation"`
	ActiveEffects int    `json:"active_effects"`
	Particles     int    `json:"particles"`
}

// LightingMetrics contains MQTT lighting bridge statistics.
type LightingMetrics struct {
	Connected bool   `json:"connected"`
	Dropped   uint64 `json:"dropped"`
}

// DatabaseMetrics contains database connection pool statistics.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

// handleMetrics returns runtime and experience metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
		},
	}

	snap, err := s.exp.Snapshot(r.Context())
	if err != nil {
		writeInternalError(w, "failed to read experience")
		return
	}
	metrics.Experience = ExperienceMetrics{
		Scene:      snap.Scene.String(),
		Generation: snap.Generation,
	}
	for _, e := range snap.Effects {
		if e.Active {
			metrics.Experience.ActiveEffects++
		}
		metrics.Experience.Particles += e.Population
	}

	if s.lighting != nil {
		metrics.Lighting = &LightingMetrics{
			Connected: s.lighting.IsConnected(),
			Dropped:   s.lighting.Dropped(),
		}
	}

	if s.db != nil {
		dbStats := s.db.Stats()
		metrics.Database = &DatabaseMetrics{
			OpenConnections: dbStats.OpenConnections,
			InUse:           dbStats.InUse,
			Idle:            dbStats.Idle,
			WaitCount:       dbStats.WaitCount,
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}
