package handler

import "net/http"

// GetHealth reports liveness. It deliberately checks nothing downstream so
// orchestrators can distinguish "process up" from "dependencies up".
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
