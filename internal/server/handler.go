// Package server serves the activity tracker as a JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/at-ishikawa/studytracker/internal/achievement"
	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/example"
)

const (
	maxCalendarDays     = 3660
	maxRequestBodyBytes = 64 << 10
)

var (
	errAchievementsUnavailable = errors.New("achievements are not available")
	errExamplesUnavailable     = errors.New("example generation is not available")
)

// ActivityHandler implements the HTTP API on top of a loaded tracker.
type ActivityHandler struct {
	tracker     *activity.Tracker
	book        *achievement.Book
	generator   *example.Generator
	validator   *requestValidator
	now         func() time.Time
	heatmapDays int
	logger      *slog.Logger
}

type HandlerOption func(*ActivityHandler)

func WithClock(now func() time.Time) HandlerOption {
	return func(h *ActivityHandler) {
		h.now = now
	}
}

// WithHeatmapDays sets the calendar range returned when no start date is requested.
func WithHeatmapDays(days int) HandlerOption {
	return func(h *ActivityHandler) {
		h.heatmapDays = days
	}
}

func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *ActivityHandler) {
		h.logger = logger
	}
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(tracker *activity.Tracker, book *achievement.Book, generator *example.Generator, opts ...HandlerOption) (*ActivityHandler, error) {
	validator, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("newRequestValidator() > %w", err)
	}
	h := &ActivityHandler{
		tracker:     tracker,
		book:        book,
		generator:   generator,
		validator:   validator,
		now:         time.Now,
		heatmapDays: 365,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Routes returns the API routes.
func (h *ActivityHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /api/statistics", h.getStatistics)
	mux.HandleFunc("GET /api/calendar", h.getCalendar)
	mux.HandleFunc("POST /api/sessions", h.recordSession)
	mux.HandleFunc("POST /api/visits", h.markVisited)
	mux.HandleFunc("GET /api/achievements", h.getAchievements)
	mux.HandleFunc("POST /api/examples", h.generateExamples)
	return mux
}

func (h *ActivityHandler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ActivityHandler) getStatistics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.tracker.ComputeStatistics(h.now()))
}

type monthLabel struct {
	WeekIndex int    `json:"weekIndex"`
	Month     string `json:"month"`
}

type calendarResponse struct {
	Start     activity.Date   `json:"start"`
	End       activity.Date   `json:"end"`
	WeekStart string          `json:"weekStart"`
	Weeks     []activity.Week `json:"weeks"`
	Months    []monthLabel    `json:"months"`
}

func (h *ActivityHandler) getCalendar(w http.ResponseWriter, r *http.Request) {
	end := h.tracker.Today(h.now())
	if value := r.URL.Query().Get("end"); value != "" {
		date, err := activity.ParseDate(value)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, fmt.Errorf("end must be a date in YYYY-MM-DD format"))
			return
		}
		end = date
	}
	start := end.AddDays(-(h.heatmapDays - 1))
	if value := r.URL.Query().Get("start"); value != "" {
		date, err := activity.ParseDate(value)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, fmt.Errorf("start must be a date in YYYY-MM-DD format"))
			return
		}
		start = date
	}
	if end.Before(start) {
		h.writeError(w, r, http.StatusBadRequest, fmt.Errorf("start must not be after end"))
		return
	}
	if start.DaysUntil(end) >= maxCalendarDays {
		h.writeError(w, r, http.StatusBadRequest, fmt.Errorf("the calendar can span at most %d days", maxCalendarDays))
		return
	}

	loc := h.tracker.Location()
	weeks := h.tracker.BuildCalendarGrid(start.Time(loc), end.Time(loc))
	response := calendarResponse{
		Start:     start,
		End:       end,
		WeekStart: strings.ToLower(h.tracker.WeekStart().String()),
		Weeks:     weeks,
		Months:    []monthLabel{},
	}
	for _, label := range activity.MonthLabels(weeks) {
		response.Months = append(response.Months, monthLabel{
			WeekIndex: label.WeekIndex,
			Month:     label.Month.String(),
		})
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

type recordSessionRequest struct {
	CardsReviewed *int `json:"cardsReviewed" validate:"required,gte=0"`
}

type dayRecord struct {
	Date          activity.Date `json:"date"`
	CardsReviewed int           `json:"cardsReviewed"`
	SessionsCount int           `json:"sessionsCount"`
}

type mutationResponse struct {
	Record     dayRecord                 `json:"record"`
	Created    *bool                     `json:"created,omitempty"`
	Statistics activity.Statistics       `json:"statistics"`
	Unlocked   []achievement.Achievement `json:"unlocked"`
	Persisted  bool                      `json:"persisted"`
}

func (h *ActivityHandler) recordSession(w http.ResponseWriter, r *http.Request) {
	var request recordSessionRequest
	if !h.decodeRequest(w, r, &request) {
		return
	}

	now := h.now()
	if err := h.tracker.RecordSession(r.Context(), *request.CardsReviewed, now); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, activity.ErrNegativeCardCount) {
			status = http.StatusBadRequest
		}
		h.writeError(w, r, status, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.mutationResponse(r, now, nil))
}

func (h *ActivityHandler) markVisited(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	created := h.tracker.MarkVisited(r.Context(), now)
	h.writeJSON(w, r, http.StatusOK, h.mutationResponse(r, now, &created))
}

func (h *ActivityHandler) mutationResponse(r *http.Request, now time.Time, created *bool) mutationResponse {
	stats := h.tracker.ComputeStatistics(now)
	record := h.tracker.Records()[stats.Today]
	response := mutationResponse{
		Record: dayRecord{
			Date:          stats.Today,
			CardsReviewed: record.CardsReviewed,
			SessionsCount: record.SessionsCount,
		},
		Created:    created,
		Statistics: stats,
		Unlocked:   []achievement.Achievement{},
		Persisted:  h.tracker.PersistError() == nil,
	}
	if h.book == nil {
		return response
	}
	_, unlocked, err := h.book.Check(r.Context(), stats, stats.Today)
	if err != nil {
		h.logger.Warn("failed to check achievements",
			slog.String("requestId", RequestIDFromContext(r.Context())),
			slog.Any("error", err),
		)
		return response
	}
	if len(unlocked) > 0 {
		response.Unlocked = unlocked
	}
	return response
}

type achievementsResponse struct {
	Achievements  []achievement.Progress `json:"achievements"`
	UnlockedCount int                    `json:"unlockedCount"`
}

func (h *ActivityHandler) getAchievements(w http.ResponseWriter, r *http.Request) {
	if h.book == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, errAchievementsUnavailable)
		return
	}
	stats := h.tracker.ComputeStatistics(h.now())
	progress, _, err := h.book.Check(r.Context(), stats, stats.Today)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("check achievements: %w", err))
		return
	}
	response := achievementsResponse{Achievements: progress}
	for _, p := range progress {
		if p.Unlocked {
			response.UnlockedCount++
		}
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

type generateExamplesRequest struct {
	Word    string `json:"word" validate:"required,max=100"`
	Count   int    `json:"count" validate:"omitempty,gte=1,lte=10"`
	Context string `json:"context" validate:"max=500"`
}

func (h *ActivityHandler) generateExamples(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, errExamplesUnavailable)
		return
	}
	var request generateExamplesRequest
	if !h.decodeRequest(w, r, &request) {
		return
	}

	result, err := h.generator.Generate(r.Context(), request.Word, request.Count, request.Context)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, example.ErrEmptyWord) {
			status = http.StatusBadRequest
		}
		h.writeError(w, r, status, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// decodeRequest decodes and validates a JSON body of at most maxRequestBodyBytes,
// writing a 413 or 400 response on failure.
func (h *ActivityHandler) decodeRequest(w http.ResponseWriter, r *http.Request, request any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit))
			return false
		}
		h.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	if err := h.validator.Struct(request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return false
	}
	return true
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (h *ActivityHandler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("failed to handle a request",
			slog.String("path", r.URL.Path),
			slog.String("requestId", RequestIDFromContext(r.Context())),
			slog.Any("error", err),
		)
	}
	h.writeJSON(w, r, status, errorResponse{
		Error:     err.Error(),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (h *ActivityHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to write a response",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}
