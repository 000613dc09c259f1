package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/hermes/pkg/domain/interfaces"
	"github.com/secmon-lab/hermes/pkg/registry"
	"github.com/secmon-lab/hermes/pkg/utils/errutil"
	"github.com/secmon-lab/hermes/pkg/utils/logging"
	"github.com/secmon-lab/hermes/pkg/utils/safe"
)

// AdapterFactory builds a fresh, uninitialized adapter instance.
// Handlers construct one per request because the connection identifier
// arrives in the request body and adapter configuration is immutable
// after initialization.
type AdapterFactory func() (interfaces.ChatIntegration, error)

type Server struct {
	router         *chi.Mux
	registry       *registry.Registry
	slackFactory   AdapterFactory
	defaultChannel string
}

type Options func(*Server)

// WithSlackFactory binds the factory used by the Slack operation
// handlers.
func WithSlackFactory(f AdapterFactory) Options {
	return func(s *Server) {
		s.slackFactory = f
	}
}

// WithDefaultChannel sets the channel used when a send request omits
// one.
func WithDefaultChannel(channel string) Options {
	return func(s *Server) {
		s.defaultChannel = channel
	}
}

// New creates the HTTP server around the given integration registry.
func New(reg *registry.Registry, opts ...Options) (*Server, error) {
	if reg == nil {
		return nil, goerr.New("integration registry is required")
	}

	s := &Server{
		router:   chi.NewRouter(),
		registry: reg,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", livenessHandler)
	r.Get("/api/integrations", integrationsHandler(reg))

	if s.slackFactory != nil {
		r.Route("/api/integrations/slack", func(r chi.Router) {
			registerOperation(r, "/send-message", s, sendMessageOp)
			registerOperation(r, "/users", s, listUsersOp)
			registerOperation(r, "/channels", s, listChannelsOp)
			registerOperation(r, "/user-info", s, userInfoOp)
			registerOperation(r, "/health", s, healthCheckOp)
		})
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs every HTTP request with the request-scoped logger.
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// livenessHandler reports process liveness. It never touches an
// adapter.
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

// integrationsHandler lists registered adapters.
func integrationsHandler(reg *registry.Registry) http.HandlerFunc {
	type entry struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Version string `json:"version"`
		Enabled bool   `json:"enabled"`
	}
	type response struct {
		Integrations []entry `json:"integrations"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		all := reg.GetAll()
		resp := response{Integrations: make([]entry, len(all))}
		for i, itg := range all {
			resp.Integrations[i] = entry{
				ID:      itg.ID().String(),
				Name:    itg.Name(),
				Version: itg.Version(),
				Enabled: itg.Enabled(),
			}
		}

		data, err := json.Marshal(resp)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal integrations response"), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		safe.Write(r.Context(), w, data)
	}
}
