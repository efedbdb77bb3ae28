package handler

import (
	"encoding/csv"
	"net/http"

	"github.com/lvaldes/gastracker/internal/service"
)

// ExportCSV streams all of the caller's trips as a CSV download.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.List(r.Context(), uid)
	if err != nil {
		respondInternal(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(service.TripCSVHeader)
	for _, t := range trips {
		_ = cw.Write(service.TripCSVRecord(t))
	}
	cw.Flush()
}
