// Package server exposes the webhook endpoint Telegram delivers updates
// to, plus a health check.
package server

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// UpdateParser decodes a webhook request into an update.
// *tgbotapi.BotAPI satisfies it.
type UpdateParser interface {
	HandleUpdate(req *http.Request) (*tgbotapi.Update, error)
}

type Server struct {
	router  *mux.Router
	logger  *logrus.Logger
	parser  UpdateParser
	updates chan<- tgbotapi.Update
}

// New builds the router. When parser is nil only the health endpoint is
// served (long-polling mode).
func New(token string, parser UpdateParser, updates chan<- tgbotapi.Update, logger *logrus.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		logger:  logger,
		parser:  parser,
		updates: updates,
	}
	s.router.Use(s.logRequest)
	s.router.HandleFunc("/", s.health).Methods(http.MethodGet)
	if parser != nil {
		// path derived from the bot token, the only secret the sender knows
		s.router.HandleFunc("/bot"+token, s.webhook).Methods(http.MethodPost)
	}
	return s
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("🟢 Bot is running"))
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	update, err := s.parser.HandleUpdate(r)
	if err != nil {
		s.logger.WithError(err).Warn("bad webhook payload")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	select {
	case s.updates <- *update:
		w.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Error starting server: ", err)
		}
	}()
	s.logger.Info("Server started on ", addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Errorf("Server shutdown failed: %s", err)
		return
	}
	s.logger.Info("Server stopped")
}
