// Package httpapi exposes the light service over a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"voice-lights/internal/application"
	"voice-lights/internal/domain"
	"voice-lights/internal/interpreter"
)

const (
	maxJSONBody  = 64 * 1024
	maxAudioBody = 10 * 1024 * 1024
)

// LightService is the part of application.LightService the API drives.
type LightService interface {
	HandleCommand(ctx context.Context, text, source string) application.VoiceResponse
	SetLight(ctx context.Context, light int, action domain.Action) (string, error)
	SetAll(ctx context.Context, on bool) (string, error)
	Status() domain.LightStatus
	RelayInfo() domain.RelayInfo
	History(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

type Options struct {
	AuthToken          string
	RateLimitPerMinute int
	TrustedProxies     []string
	AccessLog          io.Writer
}

type Server struct {
	addr      string
	lights    LightService
	stt       application.SpeechToText
	authToken string
	limiter   *RateLimiter
	router    *mux.Router
	handler   http.Handler
	logger    *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

func NewServer(addr string, lights LightService, stt application.SpeechToText, opts Options, logger *slog.Logger) *Server {
	if stt == nil {
		stt = &application.NoopSTT{}
	}
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 60
	}
	if opts.AccessLog == nil {
		opts.AccessLog = io.Discard
	}

	s := &Server{
		addr:      addr,
		lights:    lights,
		stt:       stt,
		authToken: opts.AuthToken,
		limiter:   NewRateLimiter(opts.RateLimitPerMinute, time.Minute, opts.TrustedProxies...),
		router:    mux.NewRouter().StrictSlash(true),
		logger:    logger,
	}
	s.routes()

	s.handler = handlers.CombinedLoggingHandler(opts.AccessLog,
		handlers.CORS(
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "X-Auth-Token"}),
		)(requestID(s.router)),
	)
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/voice", s.limiter.Middleware(s.authorized(s.handleVoice))).Methods(http.MethodPost)
	api.HandleFunc("/audio", s.limiter.Middleware(s.authorized(s.handleAudio))).Methods(http.MethodPost)
	api.HandleFunc("/control", s.limiter.Middleware(s.authorized(s.handleControl))).Methods(http.MethodPost)
	api.HandleFunc("/all-on", s.limiter.Middleware(s.authorized(s.handleAll(true)))).Methods(http.MethodPost)
	api.HandleFunc("/all-off", s.limiter.Middleware(s.authorized(s.handleAll(false)))).Methods(http.MethodPost)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/languages", s.handleLanguages).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("Not found"))
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("Method not allowed"))
	})
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func(srv *http.Server) {
		s.logger.Info("HTTP server starting", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}(s.server)

	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}
	s.server = nil
	return nil
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			s.logger.Warn("unauthorized request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
			return
		}
		next(w, r)
	}
}

type voiceRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}

	resp := s.lights.HandleCommand(r.Context(), req.Command, "web")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Failed to read body"))
		return
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("Empty audio"))
		return
	}

	text, err := s.stt.Transcribe(r.Context(), data)
	if err != nil {
		s.logger.Error("transcribing audio", "error", err)
		if errors.Is(err, application.ErrSpeechNotConfigured) {
			writeJSON(w, http.StatusNotImplemented, errorBody("Speech recognition is not configured"))
			return
		}
		writeJSON(w, http.StatusBadGateway, errorBody("Could not transcribe audio"))
		return
	}

	resp := s.lights.HandleCommand(r.Context(), text, "audio")
	writeJSON(w, http.StatusOK, resp)
}

type controlRequest struct {
	Light  *int   `json:"light"`
	Action string `json:"action"`
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req controlRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if req.Light == nil || req.Action == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Missing parameters"))
		return
	}

	msg, err := s.lights.SetLight(r.Context(), *req.Light, domain.Action(strings.ToLower(req.Action)))
	switch {
	case errors.Is(err, application.ErrInvalidLight), errors.Is(err, application.ErrInvalidAction):
		writeJSON(w, http.StatusBadRequest, errorBody(capitalize(err.Error())))
	case err != nil:
		writeJSON(w, http.StatusBadGateway, errorBody("Control failed"))
	default:
		writeJSON(w, http.StatusOK, messageBody(msg))
	}
}

func (s *Server) handleAll(on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.lights.SetAll(r.Context(), on)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, errorBody("Relay unavailable: lights were not switched"))
			return
		}
		writeJSON(w, http.StatusOK, messageBody(msg))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.lights.Status()
	body := make(map[string]bool, len(status))
	for _, id := range domain.AllLights() {
		body[domain.LightKey(id)] = status[id]
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, interpreter.LanguageNames())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := s.lights.History(r.Context(), limit)
	if err != nil {
		s.logger.Error("loading history", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Could not load history"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "entries": entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"relay":  s.lights.RelayInfo(),
	})
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorBody(msg string) response {
	return response{Success: false, Message: msg}
}

func messageBody(msg string) response {
	return response{Success: true, Message: msg}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
