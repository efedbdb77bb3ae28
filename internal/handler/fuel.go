package handler

import (
	"errors"
	"net/http"

	"github.com/lvaldes/gastracker/internal/domain"
)

// maxSnapshotLiters caps manual fuel entries at the API boundary. Tanks this
// size don't exist on the vehicles we track; anything above it is a typo.
const maxSnapshotLiters = 200

type snapshotRequest struct {
	FuelLiters *float64 `json:"fuelLiters"`
}

// RecordSnapshot stores a point-in-time fuel level for the caller.
func (s *Server) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req snapshotRequest
	if err := decodeJSON(r, &req); err != nil || req.FuelLiters == nil {
		respondError(w, http.StatusBadRequest, "validation", "fuelLiters is a required number")
		return
	}
	if *req.FuelLiters > maxSnapshotLiters {
		respondError(w, http.StatusBadRequest, "validation", "fuelLiters must be at most 200")
		return
	}

	_, err := s.fuel.Record(r.Context(), uid, *req.FuelLiters)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, map[string]bool{"ok": true})
	case errors.Is(err, domain.ErrValidation):
		respondValidation(w, err)
	default:
		respondInternal(w)
	}
}

// GetStats returns the caller's consumption statistics. Fields the engine
// cannot derive from the available history come back as null rather than
// fabricated zeros.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	stats, err := s.stats.Stats(r.Context(), uid)
	if err != nil {
		respondInternal(w)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
