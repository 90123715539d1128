package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/automatelab/relay/pkg/relay"
)

const (
	// DefaultMaxRequestBytes caps inbound bodies when no limit is configured.
	DefaultMaxRequestBytes = 1 << 20 // 1 MiB

	// NetlifyPath is the path the browser used when the relay ran as a
	// Netlify function.
	NetlifyPath = "/.netlify/functions/proxy"

	// RequestIDHeader carries the per-request ID on every response.
	RequestIDHeader = "X-Request-ID"
)

// HTTPHandler serves the relay endpoint over plain HTTP.
type HTTPHandler struct {
	dispatcher *relay.Dispatcher
	targets    *relay.Targets
	maxBytes   int64
}

// NewHTTPHandler creates the HTTP transport. maxBytes <= 0 selects
// DefaultMaxRequestBytes.
func NewHTTPHandler(dispatcher *relay.Dispatcher, targets *relay.Targets, maxBytes int64) *HTTPHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBytes
	}
	return &HTTPHandler{dispatcher: dispatcher, targets: targets, maxBytes: maxBytes}
}

// RegisterRoutes registers the relay on path and the Netlify path, plus the
// health endpoint. Method checks happen in the dispatcher, so the relay
// routes accept every method.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, path string) {
	if path == "" {
		path = "/api/proxy"
	}
	mux.Handle(path, h)
	if path != NetlifyPath {
		mux.Handle(NetlifyPath, h)
	}
	mux.HandleFunc("GET /healthz", h.Health)
}

// ServeHTTP relays one request.
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := relay.Request{Method: r.Method}
	if r.Body != nil {
		req.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	env := h.dispatcher.Handle(ctx, req)
	writeEnvelope(w, r, env)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status     string                `json:"status"`
	Configured map[relay.Action]bool `json:"configured"`
}

// Health reports liveness and which actions have a target. Secrets are
// never included.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.targets != nil {
		resp.Configured = h.targets.Configured()
	}
	w.Header().Set("Content-Type", relay.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, env relay.Envelope) {
	body, err := env.Bytes()
	if err != nil {
		slog.ErrorContext(r.Context(), "encode envelope",
			slog.String("request_id", relay.RequestID(r.Context())),
			slog.String("error", err.Error()))
		env = relay.Envelope{StatusCode: http.StatusInternalServerError, Body: relay.ErrorBody{Error: relay.MsgInternal}}
		body, _ = env.Bytes()
	}

	w.Header().Set("Content-Type", env.ContentType())
	w.WriteHeader(env.StatusCode)
	w.Write(body)
}

// WithRequestID assigns every request an xid, exposes it in the
// X-Request-ID response header and logs the completed request.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		w.Header().Set(RequestIDHeader, id)

		ctx := relay.WithRequestID(r.Context(), id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.InfoContext(ctx, "http request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
