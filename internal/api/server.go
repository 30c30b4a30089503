package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/f1-standings/internal/config"
)

// Server runs the API listener
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates an API server for handler
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *logrus.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Port),
			Handler:      handler,
			ReadTimeout:  seconds(cfg.ReadTimeoutSeconds, 10),
			WriteTimeout: seconds(cfg.WriteTimeoutSeconds, 30),
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background until ctx is cancelled. The returned
// channel is closed once the listener has stopped.
func (s *Server) Start(ctx context.Context) <-chan struct{} {
	serving := make(chan struct{})
	go func() {
		defer close(serving)
		s.logger.WithField("addr", s.server.Addr).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
			if err := s.Shutdown(); err != nil {
				s.logger.WithError(err).Warn("API server did not shut down cleanly")
			}
		case <-serving:
		}
		<-serving
	}()
	return done
}

// Shutdown gracefully stops the listener
func (s *Server) Shutdown() error {
	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
