package internal

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kazz187/taskbot/internal/activity"
	"github.com/kazz187/taskbot/internal/config"
	"github.com/kazz187/taskbot/internal/eventbus"
	"github.com/kazz187/taskbot/internal/report"
	"github.com/kazz187/taskbot/internal/task"
	"github.com/kazz187/taskbot/internal/telegram"
	"github.com/kazz187/taskbot/pkg/cerr"
	"github.com/kazz187/taskbot/pkg/clog"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	server   *http.Server
	env      *config.Env
	tasks    task.Repository
	recorder *activity.Recorder
	webhook  *telegram.WebhookHandler
	now      func() time.Time
}

// NewServer wires the HTTP surface. webhook is nil in polling mode; recorder
// may be nil when activity is not tracked.
func NewServer(
	env *config.Env,
	tasks task.Repository,
	recorder *activity.Recorder,
	webhook *telegram.WebhookHandler,
	now func() time.Time,
) *Server {
	return &Server{
		env:      env,
		tasks:    tasks,
		recorder: recorder,
		webhook:  webhook,
		now:      now,
	}
}

// Handler builds the routing tree without binding a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		clog.SlogChiMiddleware(),
		cerr.NewJSONChiMiddleware(),
	)
	if s.webhook != nil {
		r.Post("/telegram/webhook", s.webhook.Handle)
	}
	if s.env.APIKey != "" {
		r.Route("/api", func(r chi.Router) {
			r.Use(s.apiKeyMiddleware)
			r.Get("/tasks", s.listTasks)
			r.Get("/report", s.getReport)
			r.Get("/activity", s.listActivity)
		})
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
	})

	mux := http.NewServeMux()
	mux.Handle("/health", &HealthChecker{})
	mux.Handle(grpchealth.NewHandler(
		grpchealth.NewStaticChecker(),
		connect.WithInterceptors(clog.NewSlogConnectInterceptor(clog.WithConnectFilter(clog.SkipHealthCheck))),
	))
	mux.Handle("/", r)
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully. ctx is
// also the base context of every request.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr: addr,
		Handler: h2c.NewHandler(cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		}).Handler(s.Handler()), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type HealthChecker struct{}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.env.APIKey)) != 1 {
			cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// tasksFor returns every task, or only those of the user named by the
// "user" query parameter.
func (s *Server) tasksFor(r *http.Request) ([]task.Task, error) {
	tasks, err := s.tasks.ListTasks(r.Context())
	if err != nil {
		return nil, err
	}
	raw := r.URL.Query().Get("user")
	if raw == "" {
		return tasks, nil
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, cerr.NewError(cerr.InvalidArgument, "user must be a numeric id", err)
	}
	return task.FilterByUser(tasks, userID), nil
}

type listTasksResponse struct {
	Tasks []report.Entry `json:"tasks"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasksFor(r)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), listTasksResponse{Tasks: report.Entries(tasks, s.now())})
}

type reportResponse struct {
	Report string `json:"report"`
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasksFor(r)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), reportResponse{Report: report.Format(tasks, s.now())})
}

type activityResponse struct {
	Events []eventbus.Event `json:"events"`
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	events := []eventbus.Event{}
	if s.recorder != nil {
		events = append(events, s.recorder.Recent()...)
	}
	cerr.SetJSONResponse(r.Context(), activityResponse{Events: events})
}
