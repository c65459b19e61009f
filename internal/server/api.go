package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/recency"
	"github.com/Tiliavir/remylog/internal/summary"
)

// CreateLogRequest is the body of POST /api/logs. An empty Time means now.
type CreateLogRequest struct {
	Type  string `json:"type"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// Response is the envelope returned by the write endpoints.
type Response struct {
	Success bool         `json:"success"`
	Event   *model.Event `json:"event,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ----------------------------------------------------------------------------
// GET /api/logs
// ----------------------------------------------------------------------------

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, r, "listing events", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// ----------------------------------------------------------------------------
// POST /api/logs
// ----------------------------------------------------------------------------

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid JSON body"})
		return
	}

	ts := s.now()
	if strings.TrimSpace(req.Time) != "" {
		parsed, err := ParseTimestamp(req.Time)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
			return
		}
		ts = parsed
	}

	ev, err := s.store.Append(r.Context(), model.NewEvent{
		Type:  model.ActivityType(strings.TrimSpace(req.Type)),
		Time:  ts,
		Notes: req.Notes,
	})
	if errors.Is(err, model.ErrNoActivity) {
		writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err != nil {
		s.serverError(w, r, "appending event", err)
		return
	}

	s.metrics.logged(ev.Type)
	writeJSON(w, http.StatusCreated, Response{Success: true, Event: &ev})
}

// ----------------------------------------------------------------------------
// DELETE /api/logs/{id}
// ----------------------------------------------------------------------------

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid id"})
		return
	}
	if err := s.store.Remove(r.Context(), id); err != nil {
		s.serverError(w, r, "removing event", err)
		return
	}
	s.metrics.eventsDeleted.Inc()
	writeJSON(w, http.StatusOK, Response{Success: true})
}

// ----------------------------------------------------------------------------
// GET /api/days
// ----------------------------------------------------------------------------

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, r, "listing events", err)
		return
	}
	writeJSON(w, http.StatusOK, summary.Build(events, s.loc))
}

// ----------------------------------------------------------------------------
// GET /api/recency?type=Wee&now=2025-01-01T12:00:00Z
// ----------------------------------------------------------------------------

func (s *Server) handleRecency(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	if v := r.URL.Query().Get("now"); v != "" {
		parsed, err := ParseTimestamp(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
			return
		}
		now = parsed
	}

	events, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, r, "listing events", err)
		return
	}

	if typ := r.URL.Query().Get("type"); typ != "" {
		writeJSON(w, http.StatusOK, []recency.Report{s.reporter.Report(events, model.ActivityType(typ), now)})
		return
	}
	writeJSON(w, http.StatusOK, s.reporter.All(events, now))
}

// ParseTimestamp parses an ISO-8601 timestamp with a zone offset, with or
// without fractional seconds.
func ParseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: expected ISO-8601 like 2025-01-01T13:00:00Z", v)
	}
	return t, nil
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.requestLogger(r).Error(op+" failed", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Response is already partially written on failure; nothing left to do.
	_ = json.NewEncoder(w).Encode(v)
}
