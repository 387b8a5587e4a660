package httpapi

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	todobackend "github.com/vimalpatra/todo-backend"
	"github.com/vimalpatra/todo-backend/middleware"
	"github.com/vimalpatra/todo-backend/tasks"
)

// Options tunes the assembled router.
type Options struct {
	// AllowedOrigins is the CORS origin allowlist. Empty allows any origin.
	AllowedOrigins []string
	// MetricsHandler, when non-nil, is mounted at GET /metrics.
	MetricsHandler http.Handler
}

// Server holds the handler dependencies. Create one with NewServer and mount
// the router it builds.
type Server struct {
	engine *todobackend.Engine
	repo   *tasks.Repository
}

// NewServer creates a Server over the given engine and task repository.
func NewServer(engine *todobackend.Engine, repo *tasks.Repository) *Server {
	return &Server{
		engine: engine,
		repo:   repo,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Content-Type",
			middleware.HeaderAccessToken,
			middleware.HeaderRefreshToken,
			middleware.HeaderUserID,
		},
		// Clients read the token pair straight off the response.
		ExposedHeaders: []string{
			middleware.HeaderAccessToken,
			middleware.HeaderRefreshToken,
		},
		MaxAge: 300,
	}))
	r.Use(s.withClientIP)

	r.Post("/users/signup", s.handleSignup)
	r.Post("/users/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.engine))
		r.Get("/users/me/access-token", s.handleRefreshAccessToken)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAccess(s.engine))

		r.Get("/lists", s.handleGetLists)
		r.Post("/lists", s.handleCreateList)
		r.Patch("/lists/{listId}", s.handleUpdateList)
		r.Delete("/lists/{listId}", s.handleDeleteList)

		r.Get("/lists/{listId}/tasks", s.handleGetTasks)
		r.Post("/lists/{listId}/tasks", s.handleCreateTask)
		r.Patch("/lists/{listId}/tasks/{taskId}", s.handleUpdateTask)
		r.Delete("/lists/{listId}/tasks/{taskId}", s.handleDeleteTask)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	return r
}

// withClientIP puts the caller's address on the request context for abuse
// tracking and audit.
func (s *Server) withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ctx := todobackend.WithClientIP(r.Context(), host)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
