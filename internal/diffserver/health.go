package diffserver

import (
	"encoding/json"
	"net/http"
)

// HealthStatus is the /health response body for load balancers and
// monitoring.
type HealthStatus struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
	Target Target `json:"target"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := HealthStatus{Status: "ok", Mode: s.modeString(), Target: s.target}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) modeString() string {
	if s.mode == ModeMerge {
		return "merge"
	}
	return "diff"
}
