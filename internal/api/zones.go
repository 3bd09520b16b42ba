package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/auralis-home/auralis-core/internal/zone"
)

// handleListZones returns the occupancy state of every configured zone,
// keyed by zone identifier.
func (s *Server) handleListZones(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

// handleGetZone returns the occupancy state of a single zone.
func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	zoneID := chi.URLParam(r, "id")

	state, err := s.store.Get(zoneID)
	if err != nil {
		if errors.Is(err, zone.ErrZoneNotFound) {
			writeNotFound(w, "unknown zone: "+zoneID)
			return
		}
		s.logger.Error("zone lookup failed", "zone", zoneID, "error", err)
		writeInternalError(w, "zone lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, state)
}
