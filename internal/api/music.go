package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/auralis-home/auralis-core/internal/music"
)

// handleMusicControl accepts a music command and dispatches it to the bus.
//
// Request body: {"zone": "zone1", "action": "play", "track": "...", "volume": 0.5}
// Responses: 202 on dispatch, 400 on validation failure, 500 on broker failure.
func (s *Server) handleMusicControl(w http.ResponseWriter, r *http.Request) {
	var cmd music.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.music.SendControl(cmd, music.SourceAPI); err != nil {
		if errors.Is(err, music.ErrValidation) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		s.logger.Error("music control dispatch failed", "zone", cmd.Zone, "error", err)
		writeInternalError(w, "command dispatch failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"dispatched": true,
		"zone":       cmd.Zone,
		"action":     cmd.Action,
	})
}

// handlePlaylistUpdate accepts a playlist replacement and relays it to the bus.
//
// Request body: {"zone": "zone1", "playlist": [...]}
// Responses: 202 on dispatch, 400 on validation failure, 500 on broker failure.
func (s *Server) handlePlaylistUpdate(w http.ResponseWriter, r *http.Request) {
	var pu music.PlaylistUpdate
	if err := json.NewDecoder(r.Body).Decode(&pu); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.music.SendPlaylist(pu, music.SourceAPI); err != nil {
		if errors.Is(err, music.ErrValidation) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		s.logger.Error("playlist dispatch failed", "zone", pu.Zone, "error", err)
		writeInternalError(w, "playlist dispatch failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"dispatched": true,
		"zone":       pu.Zone,
	})
}
