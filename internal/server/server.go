// Package server exposes lesson generation and the lesson library as a JSON
// HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tinyteacher/internal/app"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
)

// SessionHeader carries the client's session id. Each session has its own
// single-generation guard.
const SessionHeader = "X-Session-ID"

// SessionIdleTimeout is how long an unused session keeps its generator.
const SessionIdleTimeout = time.Hour

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 2 << 20

type session struct {
	gen      *lesson.Generator
	lastUsed time.Time
}

// Server routes API requests to the app.
type Server struct {
	app    *app.App
	router chi.Router

	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

// New builds the router over a.
func New(a *app.App) *Server {
	s := &Server{
		app:      a,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
	s.router = s.routes(a.Config().CORSOrigins)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(origins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders: []string{SessionHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(sessionID)
		api.Post("/generate", s.handleGenerate)
		api.Post("/import", s.handleImport)
		api.Route("/lessons", func(lr chi.Router) {
			lr.Get("/", s.handleList)
			lr.Post("/", s.handleCreate)
			lr.Route("/{id}", func(one chi.Router) {
				one.Get("/", s.handleGet)
				one.Delete("/", s.handleDelete)
				one.Post("/simplify", s.handleSimplify)
				one.Get("/markdown", s.handleMarkdown)
				one.Get("/pdf", s.handlePDF)
				one.Get("/share", s.handleShare)
				one.Get("/qr.png", s.handleQR)
			})
		})
	})
	return r
}

// generator returns the session's generator, creating it on first use, and
// forgets sessions idle for longer than SessionIdleTimeout.
func (s *Server) generator(id string) *lesson.Generator {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, sess := range s.sessions {
		if key != id && now.Sub(sess.lastUsed) > SessionIdleTimeout && !sess.gen.Busy() {
			delete(s.sessions, key)
		}
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{gen: s.app.NewGenerator()}
		s.sessions[id] = sess
	}
	sess.lastUsed = now
	return sess.gen
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type ctxKey struct{}

// sessionID reads the session header or assigns a new id, echoing it back.
func sessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("requestId", middleware.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
