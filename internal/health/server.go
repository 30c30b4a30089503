// Package health provides a lightweight HTTP server for container health checks
// and a gRPC health service mirroring readiness.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const checkTimeout = 3 * time.Second

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server serves /health, /live and /ready over HTTP and the standard
// grpc.health.v1 service over gRPC.
type Server struct {
	serviceName string
	version     string
	commit      string
	port        int
	grpcPort    int
	server      *http.Server
	grpcServer  *grpc.Server
	grpcHealth  *grpchealth.Server
	logger      *logrus.Logger
	checkers    []Checker
	mu          sync.RWMutex
	ready       bool
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        int
	GRPCPort    int
	Logger      *logrus.Logger
	Checkers    []Checker
}

// NewServer creates a new health check server.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == 0 {
		port = 8080
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		port:        port,
		grpcPort:    cfg.GRPCPort,
		grpcHealth:  grpchealth.NewServer(),
		logger:      logger,
		checkers:    cfg.Checkers,
	}
	s.setServingStatus(false)
	return s
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
	s.setServingStatus(ready)
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)
	return mux
}

// RegisterGRPC registers the health service on srv.
func (s *Server) RegisterGRPC(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s.grpcHealth)
}

// Start starts the HTTP server, and the gRPC server when a port is set,
// in the background. Both stop when ctx is cancelled; the returned channel
// is closed once they have.
func (s *Server) Start(ctx context.Context) (<-chan struct{}, error) {
	var grpcLis net.Listener
	if s.grpcPort > 0 {
		lis, err := net.Listen("tcp", ":"+strconv.Itoa(s.grpcPort))
		if err != nil {
			return nil, fmt.Errorf("failed to listen for gRPC health: %w", err)
		}
		grpcLis = lis
		s.grpcServer = grpc.NewServer()
		s.RegisterGRPC(s.grpcServer)
	}

	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(s.port),
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var serving sync.WaitGroup
	serving.Add(1)
	go func() {
		defer serving.Done()
		s.logger.WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.serviceName,
		}).Info("Health check server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health check server error")
		}
	}()

	if grpcLis != nil {
		serving.Add(1)
		go func() {
			defer serving.Done()
			s.logger.WithField("port", s.grpcPort).Info("gRPC health server starting")
			if err := s.grpcServer.Serve(grpcLis); err != nil {
				s.logger.WithError(err).Error("gRPC health server error")
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("Health check server did not shut down cleanly")
		}
		serving.Wait()
	}()

	return done, nil
}

// Shutdown gracefully shuts down the health check servers.
func (s *Server) Shutdown() error {
	s.logger.Info("Health check server shutting down")
	s.grpcHealth.Shutdown()

	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Evaluate runs every checker and reports overall readiness. The gRPC
// serving status is updated to match.
func (s *Server) Evaluate(ctx context.Context) (bool, map[string]string) {
	checks := make(map[string]string, len(s.checkers)+1)
	healthy := true

	if s.IsReady() {
		checks["service"] = "ok"
	} else {
		healthy = false
		checks["service"] = "not_ready"
	}

	for _, c := range s.checkers {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.Check(cctx)
		cancel()

		if err != nil {
			healthy = false
			checks[c.Name()] = fmt.Sprintf("error: %v", err)
			continue
		}
		checks[c.Name()] = "ok"
	}

	s.setServingStatus(healthy)
	return healthy, checks
}

func (s *Server) setServingStatus(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.grpcHealth.SetServingStatus("", status)
	if s.serviceName != "" {
		s.grpcHealth.SetServingStatus(s.serviceName, status)
	}
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	}

	writeJSON(w, http.StatusOK, response)
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.serviceName,
	})
}

// handleReady handles the /ready endpoint - runs the registered checkers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	healthy, checks := s.Evaluate(r.Context())

	response := ReadyResponse{
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	if healthy {
		response.Status = "ok"
		writeJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	writeJSON(w, http.StatusServiceUnavailable, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
