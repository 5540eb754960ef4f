// Package webhook is the HTTP surface of the bot: the Meta verification
// handshake, the inbound message webhook and health probes.
package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"duitbot/internal/wa"
)

// MessageHandler consumes one extracted (sender, text) pair. The bot executor
// implements it; the handler owns all replies, so the webhook only
// acknowledges receipt.
type MessageHandler interface {
	Handle(ctx context.Context, from, text string)
}

type Server struct {
	http.Server
	handler      MessageHandler
	verifyToken  string
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr, verifyToken string, handler MessageHandler) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		handler:     handler,
		verifyToken: verifyToken,
	}

	mux.HandleFunc("/webhook", s.withLogging(s.handleWebhook))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	return s
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withLogging adds a request ID and request/response logging.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleVerification(w, r)
	case http.MethodPost:
		s.handleInbound(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleVerification answers Meta's echo-challenge subscription handshake.
func (s *Server) handleVerification(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && token == s.verifyToken {
		slog.InfoContext(r.Context(), "Webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var env wa.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		slog.WarnContext(ctx, "Undecodable webhook payload", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if env.Object != wa.ObjectBusinessAccount {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	msg, text, ok := env.FirstTextMessage()
	if !ok {
		// Status callbacks and non-text messages are acknowledged and dropped.
		w.WriteHeader(http.StatusOK)
		return
	}

	// The provider message ID is logged so duplicate deliveries are at least
	// diagnosable; retries are not deduplicated and may record twice.
	slog.InfoContext(ctx, "Inbound message",
		"message_id", msg.ID,
		"from", msg.From)

	s.handler.Handle(ctx, msg.From, text)
	w.WriteHeader(http.StatusOK)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
