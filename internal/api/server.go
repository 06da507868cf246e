package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/skycat/internal/catalogfile"
	"github.com/pbaille/skycat/internal/domain"
	"github.com/pbaille/skycat/internal/logging"
	"github.com/pbaille/skycat/internal/observability"
	"github.com/pbaille/skycat/internal/store"
)

// DefaultMatchRadius is the positional error box, in arc-seconds, used when
// a request does not give one.
const DefaultMatchRadius = 5.0

// Server handles HTTP requests for the object catalog API
type Server struct {
	store   *store.Store
	addr    string
	log     logging.Logger
	metrics *observability.Collector
	radius  float64
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l logging.Logger) Option { return func(s *Server) { s.log = l } }

func WithMetrics(c *observability.Collector) Option { return func(s *Server) { s.metrics = c } }

func WithMatchRadius(r float64) Option {
	return func(s *Server) {
		if r > 0 {
			s.radius = r
		}
	}
}

// New creates a new API server
func New(s *store.Store, addr string, opts ...Option) *Server {
	srv := &Server{store: s, addr: addr, log: logging.Noop(), radius: DefaultMatchRadius}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Handler builds the routed handler with all middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Objects
	s.handle(mux, "GET /objects", s.listObjects)
	s.handle(mux, "POST /objects", s.addObject)
	s.handle(mux, "GET /objects/{id}", s.getObject)
	s.handle(mux, "DELETE /objects/{id}", s.deleteObject)

	// Search
	s.handle(mux, "GET /search", s.searchObjects)
	s.handle(mux, "GET /near", s.nearObjects)

	// Coordinates
	s.handle(mux, "POST /coordinates/parse", s.parseCoordinates)
	s.handle(mux, "POST /coordinates/convert", s.convertCoordinates)

	// Health check
	s.handle(mux, "GET /health", s.health)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return withCORS(s.withRequestLog(mux))
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.metrics.Middleware(pattern, h))
}

// Run starts the HTTP server and shuts it down when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "starting server", logging.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// withRequestLog tags each request with an ID and logs its outcome
func (s *Server) withRequestLog(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		ctx, log := logging.WithRequestLogger(ctx, s.log)
		w.Header().Set("X-Request-ID", logging.RequestIDFromContext(ctx))

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r.WithContext(ctx))

		log.Info(ctx, "http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Any("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.SetCatalogObjects(n)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "objects": n})
}

func (s *Server) addObject(w http.ResponseWriter, r *http.Request) {
	var req catalogfile.Record
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	obj, err := req.Object()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var stored *domain.CelestialObject
	if upsert, _ := strconv.ParseBool(r.URL.Query().Get("upsert")); upsert {
		stored, err = s.store.UpsertObject(&obj)
	} else {
		stored, err = s.store.AddObject(&obj)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.refreshCount()

	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) getObject(w http.ResponseWriter, r *http.Request) {
	// Support prefix matching
	id, err := s.store.ResolveID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	obj, err := s.store.GetObject(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, obj)
}

func (s *Server) deleteObject(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.ResolveID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteObject(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.refreshCount()

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) listObjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 20
	offset := 0

	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := q.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	order, err := domain.ParseOrdering(q.Get("sort"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	radius, err := s.radiusParam(q.Get("radius"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	objects, err := s.store.ListObjects(limit, offset, order, radius)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"objects": nonNil(objects),
		"limit":   limit,
		"offset":  offset,
		"sort":    order.String(),
	})
}

func (s *Server) searchObjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	objects, err := s.store.SearchObjects(query)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"objects": nonNil(objects),
		"query":   query,
	})
}

func (s *Server) nearObjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("ra") == "" || q.Get("dec") == "" {
		writeError(w, http.StatusBadRequest, "query parameters 'ra' and 'dec' are required")
		return
	}

	ra, err := domain.ParseRA(q.Get("ra"), domain.DetectSeparator(q.Get("ra")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	// An unescaped '+' arrives as a space, so the sign is optional here.
	decText := strings.TrimSpace(q.Get("dec"))
	var dec domain.Dec
	if err := dec.ParseRelaxed(decText, domain.DetectSeparator(decText)); err != nil {
		s.fail(w, r, err)
		return
	}
	radius, err := s.radiusParam(q.Get("radius"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	matches, err := s.store.FindNear(ra, dec, radius)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if matches == nil {
		matches = []store.Match{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ra":      ra.String(),
		"dec":     dec.String(),
		"radius":  radius,
		"matches": matches,
	})
}

func (s *Server) radiusParam(v string) (float64, error) {
	if v == "" {
		return s.radius, nil
	}
	radius, err := strconv.ParseFloat(v, 64)
	if err != nil || radius <= 0 {
		return 0, &domain.ValueError{Field: "radius", Value: v}
	}
	return radius, nil
}

func (s *Server) refreshCount() {
	if n, err := s.store.Count(); err == nil {
		s.metrics.SetCatalogObjects(n)
	}
}

// fail maps err to a status code and writes it as a JSON error
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrParse):
		status = http.StatusBadRequest
		s.metrics.ObserveParseFailure("parse")
	case errors.Is(err, domain.ErrRange):
		status = http.StatusBadRequest
		s.metrics.ObserveParseFailure("range")
	case errors.Is(err, domain.ErrValue):
		status = http.StatusBadRequest
		s.metrics.ObserveParseFailure("value")
	case errors.Is(err, catalogfile.ErrMissingPosition):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrAmbiguous), errors.Is(err, store.ErrDuplicate):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		_, log := logging.WithRequestLogger(r.Context(), s.log)
		log.Error(r.Context(), "request failed", logging.Err(err))
	}
	writeError(w, status, err.Error())
}

func nonNil(objects []domain.CelestialObject) []domain.CelestialObject {
	if objects == nil {
		return []domain.CelestialObject{}
	}
	return objects
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
