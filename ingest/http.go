package ingest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saxtech/taxingest/state"
)

// Routes returns the HTTP surface of the service:
//
//	POST /v1/ingest  {"source":"usc"|"cfr"|"all","force":false}
//	GET  /v1/status
//	GET  /v1/health
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/v1/ingest", s.handleIngest)
	r.Get("/v1/status", s.handleStatus)
	r.Get("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

type ingestRequest struct {
	Source string `json:"source"`
	Force  bool   `json:"force"`
}

func (s *Service) handleIngest(w http.ResponseWriter, r *http.Request) {
	req := ingestRequest{Source: "all"}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
	}

	var reports []Report
	var err error
	switch req.Source {
	case "usc":
		var rep Report
		rep, err = s.RunUSC(r.Context(), req.Force)
		reports = []Report{rep}
	case "cfr":
		var rep Report
		rep, err = s.RunCFR(r.Context(), req.Force)
		reports = []Report{rep}
	case "all", "":
		reports, err = s.RunAll(r.Context(), req.Force)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source must be usc, cfr or all"})
		return
	}

	if errors.Is(err, ErrRunning) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"reports": reports,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Status(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []state.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": entries})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
