// Package http exposes the REST API: leader administration, reminder
// history, settings, the public response endpoints, exports, and the
// debug helpers.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aweos-lab/wikireminder/pkg/service/worker"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/errutil"
)

type Server struct {
	router    *chi.Mux
	uc        *usecase.UseCases
	scheduler *worker.Scheduler
	apiToken  string
}

type Options func(*Server)

// WithScheduler attaches the cron scheduler so the API can trigger
// cycles, report status, and restart it on settings changes.
func WithScheduler(s *worker.Scheduler) Options {
	return func(srv *Server) {
		srv.scheduler = s
	}
}

// WithAPIToken protects the admin routes with a bearer token. The
// response and health endpoints stay public.
func WithAPIToken(token string) Options {
	return func(srv *Server) {
		srv.apiToken = token
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Public: liveness and the token-guarded response endpoints. The
	// token in the URL is the only credential a leader has.
	r.Get("/api/health", healthHandler)
	r.Route("/api/respond", func(r chi.Router) {
		r.Get("/{token}", validateTokenHandler(s.uc))
		r.Post("/{token}", respondHandler(s.uc))
	})

	// Admin API
	r.Group(func(r chi.Router) {
		if s.apiToken != "" {
			r.Use(bearerAuth(s.apiToken))
		}

		r.Route("/api/teamleaders", func(r chi.Router) {
			r.Get("/", listLeadersHandler(s.uc))
			r.Post("/", createLeaderHandler(s.uc))
			r.Put("/{id}", updateLeaderHandler(s.uc))
			r.Delete("/{id}", deleteLeaderHandler(s.uc))
		})

		r.Get("/api/reminders", listRemindersHandler(s.uc))
		r.Get("/api/audit", listAuditHandler(s.uc))

		r.Route("/api/settings", func(r chi.Router) {
			r.Get("/", getSettingsHandler(s.uc))
			r.Put("/", updateSettingsHandler(s.uc, s.scheduler))
		})

		r.Route("/api/cron", func(r chi.Router) {
			r.Post("/trigger", triggerCheckHandler(s.uc))
			r.Get("/trigger", schedulerStatusHandler(s.scheduler))
			r.Get("/status", schedulerStatusHandler(s.scheduler))
		})

		r.Get("/api/export/reminders", exportRemindersHandler(s.uc))
		r.Get("/api/export/teamleaders", exportLeadersHandler(s.uc))

		r.Get("/api/status", statusHandler(s.uc, s.scheduler))

		r.Route("/api/debug", func(r chi.Router) {
			r.Post("/test-reminder", testReminderHandler(s.uc))
			r.Post("/test-chat", testChatHandler(s.uc))
			r.Post("/test-email", testMailHandler(s.uc))
		})

		r.Get("/api/wiki/collections", wikiCollectionsHandler(s.uc))
		r.Get("/api/wiki/users", wikiUsersHandler(s.uc))

		r.Get("/api/directory/users", directoryUsersHandler(s.uc))
		r.Post("/api/directory/import", directoryImportHandler(s.uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
