package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// componentCheckTimeout bounds each dependency probe in the health handler.
const componentCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Zone occupancy
		r.Route("/zones", func(r chi.Router) {
			r.Get("/", s.handleListZones)
			r.Get("/{id}", s.handleGetZone)
		})

		// Music commands
		r.Post("/music/control", s.handleMusicControl)
		r.Post("/playlist/update", s.handlePlaylistUpdate)

		// Command history
		r.Get("/commands/recent", s.handleRecentCommands)
	})

	// WebSocket endpoint
	r.Get(s.wsPath(), s.handleWebSocket)

	return r
}

// wsPath returns the configured WebSocket path, defaulting to /ws.
func (s *Server) wsPath() string {
	if s.wsCfg.Path != "" {
		return s.wsCfg.Path
	}
	return "/ws"
}

// handleHealth returns the server health status including the state of
// each dependency. The endpoint always answers 200; consumers inspect
// the component map to decide whether Core is degraded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), componentCheckTimeout)
	defer cancel()

	components := map[string]string{
		"mqtt":     s.mqttStatus(ctx),
		"database": s.dbStatus(ctx),
	}

	status := "ok"
	for _, st := range components {
		if st == "down" {
			status = "degraded"
			break
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"version":    s.version,
		"components": components,
		"zones":      s.store.Count(),
		"clients":    s.clientCount(),
	})
}

// mqttStatus reports the broker connection state for the health payload.
func (s *Server) mqttStatus(ctx context.Context) string {
	if s.mqtt == nil {
		return "disabled"
	}
	if err := s.mqtt.HealthCheck(ctx); err != nil {
		return "down"
	}
	return "up"
}

// dbStatus reports the audit database state for the health payload.
func (s *Server) dbStatus(ctx context.Context) string {
	if s.db == nil {
		return "disabled"
	}
	if err := s.db.HealthCheck(ctx); err != nil {
		return "down"
	}
	return "up"
}

// clientCount returns connected WebSocket clients, zero before Start().
func (s *Server) clientCount() int {
	if s.hub == nil {
		return 0
	}
	return s.hub.ClientCount()
}
