package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	deps Dependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// analyzeRequest is the POST /analyze body.
type analyzeRequest struct {
	PlaylistID string `json:"playlist_id"`
}

func (a analyzeRequest) validate() error {
	if strings.TrimSpace(a.PlaylistID) == "" {
		return ErrMissingPlaylist
	}
	return nil
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	summary, err := h.deps.Analyze(r.Context(), req.PlaylistID, callerID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
