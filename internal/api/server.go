package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/service"
)

// Server provides the read-only HTTP API, the health endpoint and the
// Prometheus metrics endpoint. All writes go through the bot.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/tasks", s.handleGetTasks)
	s.mux.HandleFunc("GET /api/wishes", s.handleGetWishes)
	s.mux.HandleFunc("GET /api/movies", s.handleGetMovies)
	s.mux.HandleFunc("GET /api/movies/stats", s.handleGetMovieStats)

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// handleGetTasks serves a task view for a given user. view is one of
// my (default), partner, common, completed, or all for every row owned by
// either member regardless of audience and status.
func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}
	viewer, err := s.svc.Viewer(r.Context(), userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to resolve viewer")
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var tasks []*models.Task
	switch r.URL.Query().Get("view") {
	case "all":
		tasks, err = s.svc.Tasks.ListAll(r.Context(), viewer)
	case "partner":
		tasks, err = s.svc.Tasks.ListForPartner(r.Context(), viewer, models.TaskStatusActive)
	case "common":
		tasks, err = s.svc.Tasks.ListShared(r.Context(), viewer, models.TaskStatusActive)
	case "completed":
		tasks, err = s.svc.Tasks.ListCompleted(r.Context(), viewer)
	case "", "my":
		tasks, err = s.svc.Tasks.ListForUser(r.Context(), viewer, models.TaskStatusActive)
	default:
		s.respondError(w, http.StatusBadRequest, "view must be one of my, partner, common, completed, all")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to list tasks")
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	s.respondJSON(w, http.StatusOK, tasks)
}

// handleGetWishes serves the own or partner wish view. view is my (default)
// or partner.
func (s *Server) handleGetWishes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	var (
		wishes []*models.Wish
		err    error
	)
	switch r.URL.Query().Get("view") {
	case "partner":
		var viewer *models.User
		viewer, err = s.svc.Viewer(r.Context(), userID)
		if err == nil {
			wishes, err = s.svc.Wishes.ListOfPartner(r.Context(), viewer)
		}
	case "", "my":
		wishes, err = s.svc.Wishes.ListOwn(r.Context(), userID)
	default:
		s.respondError(w, http.StatusBadRequest, "view must be my or partner")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to list wishes")
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if wishes == nil {
		wishes = []*models.Wish{}
	}
	s.respondJSON(w, http.StatusOK, wishes)
}

// handleGetMovies serves the own or partner watch-list view. view is my
// (default) or partner.
func (s *Server) handleGetMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	var (
		movies []*models.Movie
		err    error
	)
	switch r.URL.Query().Get("view") {
	case "partner":
		var viewer *models.User
		viewer, err = s.svc.Viewer(r.Context(), userID)
		if err == nil {
			movies, err = s.svc.Movies.ListOfPartner(r.Context(), viewer)
		}
	case "", "my":
		movies, err = s.svc.Movies.ListOwn(r.Context(), userID)
	default:
		s.respondError(w, http.StatusBadRequest, "view must be my or partner")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to list movies")
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if movies == nil {
		movies = []*models.Movie{}
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleGetMovieStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}
	stats, err := s.svc.Movies.Stats(r.Context(), userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to load movie stats")
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// requireUserID reads the user_id query parameter. It writes an error
// response and returns false when the parameter is absent or invalid.
func (s *Server) requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		s.respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "user_id must be an integer")
		return 0, false
	}
	if !s.svc.IsAllowed(id) {
		s.respondError(w, http.StatusNotFound, "unknown user")
		return 0, false
	}
	return id, true
}
