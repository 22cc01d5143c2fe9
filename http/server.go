package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/scrapehub"
	"github.com/google/uuid"
)

// ServiceName is reported by the liveness endpoint.
const ServiceName = "scrapehub"

// maxRequestBody caps the JSON body accepted by the scrape endpoint.
const maxRequestBody = 1 << 20

// Server exposes a Scraper as a JSON service.
//
//	GET  /                      liveness
//	GET  /api/scrape?url=...    scrape (add debug=1 for a classification report)
//	POST /api/scrape {"url":..}
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	// Addr is the bind address. Set before calling Open().
	Addr string

	Scraper scrapehub.Scraper
	Logger  *slog.Logger
}

// NewServer returns a new Server with routes registered.
func NewServer(scraper scrapehub.Scraper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  http.NewServeMux(),
		Scraper: scraper,
		Logger:  logger,
	}
	s.router.HandleFunc("GET /{$}", s.handleHealth)
	s.router.HandleFunc("GET /api/scrape", s.handleScrape)
	s.router.HandleFunc("POST /api/scrape", s.handleScrape)

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.router)
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server, waiting for in-flight scrapes
// until ctx expires.
func (s *Server) Close(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": ServiceName})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		target = urlFromBody(r.Body)
	}
	if target == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameter: url")
		return
	}

	logger := s.Logger.With("request_id", requestID(r.Context()), "url", target)

	if debugRequested(r.URL.Query().Get("debug")) {
		report, err := s.Scraper.Inspect(r.Context(), target)
		if err != nil {
			logger.Error("scrape failed", "debug", true, "err", err)
			writeError(w, http.StatusInternalServerError, scrapehub.ErrorMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, []*scrapehub.DebugReport{report})
		return
	}

	results, err := s.Scraper.Scrape(r.Context(), target)
	if err != nil {
		logger.Error("scrape failed", "err", err)
		writeError(w, http.StatusInternalServerError, scrapehub.ErrorMessage(err))
		return
	}
	if results == nil {
		results = []*scrapehub.ArticleResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// urlFromBody reads {"url": "..."} from a request body. Bodies that are not
// JSON objects yield an empty string.
func urlFromBody(body io.Reader) string {
	if body == nil {
		return ""
	}
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxRequestBody)).Decode(&req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.URL)
}

// debugRequested reports whether a debug query value turns debug mode on.
func debugRequested(v string) bool {
	v = strings.ToLower(v)
	return v == "1" || v == "true"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

type requestIDKey struct{}

// requestID returns the id assigned by logRequests, if any.
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests tags each request with an id and logs it once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		begin := time.Now()
		next.ServeHTTP(rec, r)

		s.Logger.Info("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(begin),
		)
	})
}
