package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/jgarber/feedback-radar/internal/aggregate"
	"github.com/jgarber/feedback-radar/internal/export"
)

// AnalysisRequest is the body of POST /api/analyses. Zero-valued fields
// fall back to the server's base configuration.
type AnalysisRequest struct {
	Product   string   `json:"product"`
	Platforms []string `json:"platforms,omitempty"`
	Posts     int      `json:"posts,omitempty"`
	Strategy  string   `json:"strategy,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Product == "" {
		writeError(w, http.StatusBadRequest, "product is required")
		return
	}

	cfg := s.cfg.Base
	cfg.Product = req.Product
	if len(req.Platforms) > 0 {
		cfg.Platforms = req.Platforms
	}
	if req.Posts > 0 {
		cfg.Posts = req.Posts
	}
	if req.Strategy != "" {
		cfg.Strategy = req.Strategy
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run := s.runs.create(req.Product)
	// The run outlives the request; it is canceled only by process exit.
	go func() {
		result, err := s.runner(context.Background(), cfg)
		if err != nil {
			s.runs.fail(run.ID, err)
			return
		}
		s.runs.complete(run.ID, result)
	}()

	w.Header().Set("Location", fmt.Sprintf("/api/analyses/%s", run.ID))
	writeJSON(w, http.StatusAccepted, run)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, _ *http.Request) {
	runs := s.runs.list()
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	run, ok := s.runs.get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// completedRun fetches a run and rejects it unless its result is ready.
func (s *Server) completedRun(w http.ResponseWriter, r *http.Request) (Run, bool) {
	run, ok := s.runs.get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return Run{}, false
	}
	if run.Status != StatusCompleted {
		writeError(w, http.StatusConflict, fmt.Sprintf("run is %s", run.Status))
		return Run{}, false
	}
	return run, true
}

func (s *Server) handleGetMatrix(w http.ResponseWriter, r *http.Request) {
	run, ok := s.completedRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"features":            aggregate.Features(),
		"feedback_types":      aggregate.FeedbackTypes(),
		"matrix":              run.Result.Matrix,
		"source_tally":        run.Result.SourceTally,
		"feature_percentages": run.Result.Percentages,
	})
}

func (s *Server) handleGetComplaints(w http.ResponseWriter, r *http.Request) {
	run, ok := s.completedRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run.Result.Complaints)
}

func (s *Server) handleGetDetailsCSV(w http.ResponseWriter, r *http.Request) {
	run, ok := s.completedRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", run.ID+"_details.csv"))
	if err := export.WriteDetails(w, run.Result.Details); err != nil {
		// Headers and part of the body are already on the wire; appending a
		// JSON error would corrupt the CSV. Log and let the client see the
		// truncation.
		log.Printf("[SERVER] Failed to stream details CSV for run %s: %v", run.ID, err)
	}
}
