// Package docserver serves generated schema documents over HTTP with
// content-addressed cache validation: every response carries the document's
// weak ETag and conditional requests short-circuit to 304 Not Modified.
package docserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/schemadoc-dev/schemadoc/internal/canonical"
	"github.com/schemadoc-dev/schemadoc/internal/docs"
	"github.com/schemadoc-dev/schemadoc/internal/web/cache"
)

// DefaultCacheControl instructs clients to revalidate with If-None-Match
// rather than assume freshness; the weak ETag makes revalidation cheap
const DefaultCacheControl = "no-cache"

// Server serves the documents of one generation pass
type Server struct {
	result       *docs.Result
	store        cache.Cache
	logger       *zap.Logger
	cacheControl string
	cacheTTL     time.Duration
}

// Option customizes a Server
type Option func(*Server)

// WithCache installs a response cache backend. Entries are keyed by each
// document's integrity short token, so replicas sharing a Redis backend can
// serve each other's rendered bytes.
func WithCache(store cache.Cache) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCacheControl overrides the Cache-Control header value
func WithCacheControl(value string) Option {
	return func(s *Server) {
		s.cacheControl = value
	}
}

// New creates a server over a generation result
func New(result *docs.Result, opts ...Option) *Server {
	s := &Server{
		result:       result,
		logger:       zap.NewNop(),
		cacheControl: DefaultCacheControl,
		cacheTTL:     5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/openapi.json", s.handleDocument(docs.FormatJSON))
	r.Get("/openapi.yaml", s.handleDocument(docs.FormatYAML))
	r.Get("/integrity", s.handleIntegrity)

	return r
}

func (s *Server) handleDocument(format docs.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		output, ok := s.result.Output(format)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if cache.CheckConditionalRequest(w, r, output.Record.ETag) {
			return
		}

		body := s.lookupBody(r.Context(), output)

		cache.SetCacheHeaders(w, output.Record.ETag, s.cacheControl)
		w.Header().Set("Content-Type", contentTypeFor(format))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			s.logger.Warn("failed to write document response", zap.Error(err))
		}
	}
}

// lookupBody fetches the rendered bytes through the response cache when one
// is configured, falling back to the in-process copy. Cache keys include the
// short token, so changed content can never be served from a stale entry.
func (s *Server) lookupBody(ctx context.Context, output *docs.Output) []byte {
	if s.store == nil {
		return output.Document.Bytes()
	}

	key := output.Format.Filename() + ":" + output.Record.ShortToken
	if body, err := s.store.Get(ctx, key); err == nil {
		return body
	} else if !cache.IsCacheMiss(err) {
		s.logger.Warn("document cache lookup failed", zap.Error(err))
	}

	body := output.Document.Bytes()
	if err := s.store.Set(ctx, key, body, s.cacheTTL); err != nil {
		s.logger.Warn("document cache store failed", zap.Error(err))
	}
	return body
}

func (s *Server) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	records := make(map[string]any, len(s.result.Outputs))
	for _, output := range s.result.Outputs {
		records[output.Format.Filename()] = map[string]any{
			"algorithm":  output.Record.Algorithm,
			"hash":       output.Record.Hash,
			"shortToken": output.Record.ShortToken,
			"etag":       output.Record.ETag,
			"integrity":  output.Record.Integrity,
		}
	}

	doc, err := canonical.Format(records, canonical.SyntaxJSON)
	if err != nil {
		http.Error(w, "failed to render integrity records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Bytes()); err != nil {
		s.logger.Warn("failed to write integrity response", zap.Error(err))
	}
}

func contentTypeFor(format docs.Format) string {
	if format == docs.FormatYAML {
		return "application/yaml; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}
