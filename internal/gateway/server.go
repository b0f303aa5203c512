// Package gateway exposes the relay's HTTP surface: the LINE webhook, a
// test endpoint for generating replies without LINE, and a health check.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/lineclaw/internal/channels/line"
	"github.com/nextlevelbuilder/lineclaw/internal/config"
	"github.com/nextlevelbuilder/lineclaw/internal/responder"
)

// Server is the relay HTTP server.
type Server struct {
	cfg       *config.Config
	line      *line.Client
	generator *responder.Generator

	httpServer *http.Server
	mux        *http.ServeMux
}

// NewServer creates the relay server.
func NewServer(cfg *config.Config, lineClient *line.Client, gen *responder.Generator) *Server {
	return &Server{
		cfg:       cfg,
		line:      lineClient,
		generator: gen,
	}
}

// BuildMux creates and caches the HTTP mux with all routes registered.
func (s *Server) BuildMux() *http.ServeMux {
	if s.mux != nil {
		return s.mux
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/api/test-message", s.handleTestMessage)
	mux.HandleFunc("/health", s.handleHealth)

	s.mux = mux
	return mux
}

// Start begins listening and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := s.BuildMux()

	addr := fmt.Sprintf("%s:%d", s.cfg.Gateway.Host, s.cfg.Gateway.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	slog.Info("relay starting", "addr", addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("relay server: %w", err)
	}
	return nil
}

// handleWebhook receives LINE webhook events. All pipeline failures —
// bad signature, unparseable body, reply errors — collapse into a generic
// 500 "Error"; nothing is re-raised to the transport layer.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("webhook: read body failed", "request_id", requestID, "error", err)
		s.webhookError(w)
		return
	}
	slog.Debug("webhook: request body", "request_id", requestID, "body", string(body))

	signature := r.Header.Get("X-Line-Signature")
	events, err := s.line.ParseWebhook(body, signature)
	if err != nil {
		slog.Error("webhook: parse failed", "request_id", requestID, "error", err)
		s.webhookError(w)
		return
	}

	for _, event := range events {
		if !event.IsTextMessage() {
			continue
		}

		slog.Info("webhook: message received",
			"request_id", requestID,
			"user_id", event.Source.UserID,
			"text", event.Message.Text)

		reply := s.generator.Respond(r.Context(), event.Message.Text)

		if err := s.line.ReplyMessage(r.Context(), event.ReplyToken, reply); err != nil {
			slog.Error("webhook: reply failed", "request_id", requestID, "error", err)
			s.webhookError(w)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

func (s *Server) webhookError(w http.ResponseWriter) {
	w.WriteHeader(http.StatusInternalServerError)
	io.WriteString(w, "Error")
}

// handleTestMessage generates a reply without going through LINE.
func (s *Server) handleTestMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("test-message: decode failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Message is required"})
		return
	}

	response := s.generator.Respond(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}

// handleHealth reports configuration status. openai_configured keeps its
// historical meaning: true when any generation backend is available.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "healthy",
		"line_bot_configured": s.line.Configured(),
		"openai_configured":   s.generator.Available(),
		"backends":            s.generator.Capabilities(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StartTestServer creates a listener on a random port and returns the
// actual address and a start function. Used for integration tests.
func StartTestServer(s *Server, ctx context.Context) (addr string, start func()) {
	mux := s.BuildMux()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic("listen: " + err.Error())
	}

	s.httpServer = &http.Server{Handler: mux}
	addr = ln.Addr().String()

	start = func() {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.httpServer.Shutdown(shutdownCtx)
		}()
		s.httpServer.Serve(ln)
	}

	return addr, start
}
