package workout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gymform/backend/internal/auth"
	"github.com/gymform/backend/internal/telemetry/metrics"
	"github.com/gymform/backend/internal/telemetry/tracing"
	"github.com/gymform/backend/pkg"
	log "github.com/sirupsen/logrus"
)

const (
	defaultListLimit  = 10
	maxListLimit      = 100
	defaultStatsDays  = 30
	maxStatsWindowDay = 365
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=workout_test

type workoutRepo interface {
	Record(ctx context.Context, userID int, entry SessionEntry) (*Session, error)
	List(ctx context.Context, userID, limit, offset int) ([]SessionView, error)
	Get(ctx context.Context, userID, sessionID int) (*SessionDetails, error)
	SessionsInWindow(ctx context.Context, userID int, from time.Time) ([]SessionWindowRow, error)
	PerformancesInWindow(ctx context.Context, userID int, from time.Time) ([]PerformanceWindowRow, error)
	ExerciseTypes(ctx context.Context) ([]ExerciseType, error)
}

type Handler struct {
	repo     workoutRepo
	analyzer *Analyzer
	metrics  *metrics.Manager
}

func NewHandler(repo workoutRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: NewAnalyzer(repo),
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	workoutsRouter := mainRouter.PathPrefix("/api/workouts").Subrouter()
	workoutsRouter.HandleFunc("/sessions", handler.HandleNewSession).Methods("POST", "OPTIONS").Name("new-session")
	workoutsRouter.HandleFunc("/sessions", handler.HandleListSessions).Methods("GET", "OPTIONS").Name("list-sessions")
	workoutsRouter.HandleFunc("/sessions/{id}", handler.HandleSessionDetails).Methods("GET", "OPTIONS").Name("session-details")
	workoutsRouter.HandleFunc("/stats/summary", handler.HandleStatsSummary).Methods("GET", "OPTIONS").Name("stats-summary")
	workoutsRouter.HandleFunc("/exercise-types", handler.HandleExerciseTypes).Methods("GET", "OPTIONS").Name("exercise-types")
}

// NewSessionResponse echoes back the stored session essentials.
type NewSessionResponse struct {
	SessionID       int       `json:"sessionId"`
	ExerciseType    string    `json:"exerciseType"`
	DurationSeconds int       `json:"durationSeconds"`
	TechniqueScore  float64   `json:"techniqueScore"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (handler *Handler) HandleNewSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.newSession")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no auth token", http.StatusUnauthorized)
		return
	}

	var entry SessionEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Warnf("add workout session failed, session json unmarshal: %s", err)
		http.Error(w, "add workout session failed", http.StatusBadRequest)
		return
	}

	session, err := handler.repo.Record(ctx, userID, entry)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrUnknownUser) {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}
		log.Errorf("record workout session for user %d: %s", userID, err)
		http.Error(w, "add workout session failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSessionsRecorded.Inc()

	respBytes, err := json.Marshal(NewSessionResponse{
		SessionID:       session.ID,
		ExerciseType:    entry.ExerciseType,
		DurationSeconds: entry.DurationSeconds,
		TechniqueScore:  entry.TechniqueScore,
		CreatedAt:       session.CreatedAt,
	})
	if err != nil {
		log.Errorf("marshal new session response: %s", err)
		http.Error(w, "add workout session failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusCreated)
}

// ListSessionsResponse is a paginated slice of the user's sessions.
type ListSessionsResponse struct {
	Sessions []SessionView `json:"sessions"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
}

func (handler *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.listSessions")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no auth token", http.StatusUnauthorized)
		return
	}

	limit, err := queryIntParam(r, "limit", defaultListLimit)
	if err != nil || limit <= 0 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset, err := queryIntParam(r, "offset", 0)
	if err != nil || offset < 0 {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}

	sessions, err := handler.repo.List(ctx, userID, limit, offset)
	if err != nil {
		log.Errorf("list workout sessions for user %d: %s", userID, err)
		http.Error(w, "list workout sessions failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(ListSessionsResponse{
		Sessions: sessions,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		log.Errorf("marshal sessions list: %s", err)
		http.Error(w, "list workout sessions failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) HandleSessionDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.sessionDetails")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no auth token", http.StatusUnauthorized)
		return
	}

	idStr := mux.Vars(r)["id"]
	sessionID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	details, err := handler.repo.Get(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout session %d for user %d: %s", sessionID, userID, err)
		http.Error(w, "get workout session failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(details)
	if err != nil {
		log.Errorf("marshal session details: %s", err)
		http.Error(w, "get workout session failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) HandleStatsSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.statsSummary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no auth token", http.StatusUnauthorized)
		return
	}

	days, err := queryIntParam(r, "days", defaultStatsDays)
	if err != nil || days <= 0 || days > maxStatsWindowDay {
		http.Error(w, "invalid days", http.StatusBadRequest)
		return
	}

	stats, err := handler.analyzer.Summarize(ctx, userID, days)
	if err != nil {
		log.Errorf("summarize workout stats for user %d: %s", userID, err)
		http.Error(w, "get workout stats failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("marshal workout stats: %s", err)
		http.Error(w, "get workout stats failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) HandleExerciseTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exerciseTypes")
	defer span.End()

	types, err := handler.repo.ExerciseTypes(ctx)
	if err != nil {
		log.Errorf("list exercise types: %s", err)
		http.Error(w, "list exercise types failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(types)
	if err != nil {
		log.Errorf("marshal exercise types: %s", err)
		http.Error(w, "list exercise types failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func queryIntParam(r *http.Request, name string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(val)
}
