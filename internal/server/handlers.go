package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/claude/hevyplan/internal/generator"
	"github.com/claude/hevyplan/internal/hevy"
	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/planner"
	"github.com/claude/hevyplan/internal/resolve"
	"github.com/claude/hevyplan/internal/routine"
)

// maxBodyBytes caps request bodies; preferences are a few hundred bytes.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Success     bool              `json:"success"`
	Error       string            `json:"error"`
	RunID       string            `json:"runId,omitempty"`
	FailedDay   *failedDay        `json:"failedDay,omitempty"`
	WorkoutPlan []json.RawMessage `json:"workoutPlan,omitempty"`
}

type failedDay struct {
	Index int    `json:"index"`
	Day   string `json:"day"`
	Stage string `json:"stage"`
}

type generateResponse struct {
	Success       bool              `json:"success"`
	WorkoutPlan   []json.RawMessage `json:"workoutPlan"`
	RunID         string            `json:"runId"`
	Substitutions []routine.Outcome `json:"substitutions"`
	Dropped       []string          `json:"dropped"`
}

type resolveRequest struct {
	Name       string `json:"name"`
	HevyAPIKey string `json:"hevyApiKey"`
	Limit      int    `json:"limit"`
}

func (s *Server) handleGenerateWorkout(w http.ResponseWriter, r *http.Request) {
	prefs, ok := s.decodePreferences(w, r)
	if !ok {
		return
	}

	res, err := s.plans.Run(r.Context(), prefs)
	if err != nil {
		s.writeRunError(w, res, err)
		return
	}

	subs := res.Substitutions()
	if subs == nil {
		subs = []routine.Outcome{}
	}
	dropped := res.Dropped()
	if dropped == nil {
		dropped = []string{}
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Success:       true,
		WorkoutPlan:   res.Responses(),
		RunID:         res.RunID,
		Substitutions: subs,
		Dropped:       dropped,
	})
}

// handlePlan runs a plan like handleGenerateWorkout but answers with the
// full run result instead of the legacy envelope.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	prefs, ok := s.decodePreferences(w, r)
	if !ok {
		return
	}

	res, err := s.plans.Run(r.Context(), prefs)
	if err != nil {
		s.writeRunError(w, res, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	prefs, ok := s.decodePreferences(w, r)
	if !ok {
		return
	}

	res, err := s.plans.Preview(r.Context(), prefs)
	if err != nil {
		s.writeRunError(w, res, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.HevyAPIKey == "" {
		req.HevyAPIKey = r.Header.Get("api-key")
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name is required"})
		return
	}
	if strings.TrimSpace(req.HevyAPIKey) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "hevyApiKey is required"})
		return
	}

	lookup, err := s.plans.Lookup(r.Context(), req.HevyAPIKey, req.Name, req.Limit)
	if err != nil {
		s.log.Error("resolve error", "name", req.Name, "error", err)
		writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, lookup)
}

func (s *Server) handleAliases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, resolve.Aliases)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodePreferences reads and validates a plan request, writing a 400 on
// failure.
func (s *Server) decodePreferences(w http.ResponseWriter, r *http.Request) (*models.Preferences, bool) {
	var prefs models.Preferences
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
		return nil, false
	}
	if err := prefs.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return nil, false
	}
	return &prefs, true
}

// writeRunError reports a failed run. Routines already created before the
// failing day are included so the caller knows what exists.
func (s *Server) writeRunError(w http.ResponseWriter, res *planner.Result, err error) {
	body := errorBody{Error: err.Error()}
	if res != nil {
		body.RunID = res.RunID
		body.WorkoutPlan = res.Responses()
	}
	var dayErr *planner.DayError
	if errors.As(err, &dayErr) {
		body.FailedDay = &failedDay{Index: dayErr.Index, Day: dayErr.Day, Stage: dayErr.Stage}
	}

	status := statusFor(err)
	s.log.Error("plan run failed", "run_id", body.RunID, "status", status, "error", err)
	writeJSON(w, status, body)
}

// statusFor maps a run or lookup error to an HTTP status.
func statusFor(err error) int {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, hevy.ErrTimeout),
		errors.Is(err, generator.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, generator.ErrGeneration),
		errors.Is(err, planner.ErrEmptyCatalog),
		errors.Is(err, routine.ErrEmptyDay):
		return http.StatusBadGateway
	}
	var apiErr *hevy.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
