package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kkteam/tripflow/internal/common"
	"github.com/kkteam/tripflow/internal/model"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Limit   *int   `json:"limit,omitempty"`
	Offset  *int   `json:"offset,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	q := model.TripQuery{
		SortBy:     r.URL.Query().Get("sort_by"),
		Descending: r.URL.Query().Get("order") == "desc",
	}

	var parseErr error
	q.Limit = intParam(r, "limit", &parseErr)
	q.Offset = intParam(r, "offset", &parseErr)
	q.MinDistance = floatFilter(r, "min_distance", &parseErr)
	q.MaxDistance = floatFilter(r, "max_distance", &parseErr)
	q.MinDuration = intFilter(r, "min_duration", &parseErr)
	q.MaxDuration = intFilter(r, "max_duration", &parseErr)
	q.VendorID = intFilter(r, "vendor_id", &parseErr)
	q.Hour = intFilter(r, "hour", &parseErr)
	q.DayOfWeek = intFilter(r, "day_of_week", &parseErr)
	q.IsWeekend = boolFilter(r, "is_weekend", &parseErr)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, parseErr.Error())
		return
	}

	page, err := s.analytics.ListTrips(r.Context(), q)
	if err != nil {
		s.internalError(w, "list trips", err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    page.Trips,
		Total:   &page.Total,
		Limit:   &page.Limit,
		Offset:  &page.Offset,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	report, err := s.analytics.Statistics(r.Context())
	if errors.Is(err, common.ErrNotFound) {
		writeJSON(w, http.StatusOK, envelope{Success: false, Error: "No data available"})
		return
	}
	if err != nil {
		s.internalError(w, "statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: report})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	report, err := s.analytics.Insights(r.Context())
	if err != nil {
		s.internalError(w, "insights", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: report})
}

func (s *Server) handleHourlyPatterns(w http.ResponseWriter, r *http.Request) {
	report, err := s.analytics.HourlyPatterns(r.Context())
	if err != nil {
		s.internalError(w, "hourly patterns", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: report})
}

func (s *Server) handleTopRoutes(w http.ResponseWriter, r *http.Request) {
	var parseErr error
	limit := intParam(r, "limit", &parseErr)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, parseErr.Error())
		return
	}

	report, err := s.analytics.TopRoutes(r.Context(), limit)
	if err != nil {
		s.internalError(w, "top routes", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: report})
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = model.MetricSpeed
	}

	report, err := s.analytics.Outliers(r.Context(), metric)
	if errors.Is(err, common.ErrUnknownMetric) {
		writeError(w, http.StatusBadRequest,
			"Invalid metric. Use: speed, distance, or duration")
		return
	}
	if err != nil {
		s.internalError(w, "outliers", err)
		return
	}
	if report.Count == 0 {
		writeJSON(w, http.StatusOK, envelope{Success: false, Error: "No data available"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: report})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	slog.Error("Request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// intParam reads an optional non-negative int query parameter, 0 when
// absent.
func intParam(r *http.Request, name string, parseErr *error) int {
	raw := r.URL.Query().Get(name)
	if raw == "" || *parseErr != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		*parseErr = errors.New("invalid " + name)
		return 0
	}
	return v
}

func intFilter(r *http.Request, name string, parseErr *error) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" || *parseErr != nil {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*parseErr = errors.New("invalid " + name)
		return nil
	}
	return &v
}

func floatFilter(r *http.Request, name string, parseErr *error) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" || *parseErr != nil {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*parseErr = errors.New("invalid " + name)
		return nil
	}
	return &v
}

func boolFilter(r *http.Request, name string, parseErr *error) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" || *parseErr != nil {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*parseErr = errors.New("invalid " + name)
		return nil
	}
	return &v
}
