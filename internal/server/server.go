package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/canbridge/internal/bridge"
	"github.com/muurk/canbridge/internal/config"
	"github.com/muurk/canbridge/internal/discovery"
	"github.com/muurk/canbridge/internal/logging"
	"github.com/muurk/canbridge/internal/urls"
	"github.com/muurk/canbridge/internal/version"
)

// Server accepts browser clients and runs one bridge loop per connection.
type Server struct {
	config     *config.Config
	serviceURL string
	httpServer *http.Server
	upgrader   websocket.Upgrader
	mdns       *zeroconf.Server

	ctx    context.Context
	cancel context.CancelFunc

	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
}

// New creates a new Server instance
func New(cfg *config.Config) (*Server, error) {
	if err := logging.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:     cfg,
		serviceURL: urls.Service(cfg.Host, cfg.Port, cfg.TLS()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The monitor CLI and non-browser clients send no Origin
			// header; the web UI is served from this same host. Nothing
			// here is privileged, so accept all origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ctx:         ctx,
		cancel:      cancel,
		activeConns: make(map[string]*websocket.Conn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleStatic)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.TLS() {
		tlsConfig, err := NewTLSConfig(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	return s, nil
}

// ServiceURL returns the address advertised to clients in every envelope.
func (s *Server) ServiceURL() string {
	return s.serviceURL
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	logging.Info("Starting canbridge server",
		zap.String("addr", s.httpServer.Addr),
		zap.String("service_url", s.serviceURL),
		zap.String("device", s.config.Device),
		zap.Bool("tls", s.config.TLS()),
		zap.String("log_level", s.config.LogLevel),
	)

	if s.config.Advertise {
		instance := fmt.Sprintf("canbridge-%s", hostname())
		mdns, err := discovery.Advertise(instance, s.config.Port, s.config.Device, version.Version)
		if err != nil {
			// Discovery is a convenience; the bridge works without it.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			s.mdns = mdns
			logging.Info("Advertising via mDNS",
				zap.String("instance", instance),
				zap.String("service", discovery.ServiceType),
			)
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		var err error
		if s.config.TLS() {
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err == http.ErrServerClosed {
			err = nil
		}
		errChan <- err
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// handleWebSocket upgrades the request and hands the connection to a bridge
// loop. One loop, one device session, one goroutine per client.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	logging.LogConnection(remoteAddr, "websocket_connected")

	s.mu.Lock()
	s.activeConns[remoteAddr] = conn
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.activeConns, remoteAddr)
			s.mu.Unlock()
			logging.LogConnection(remoteAddr, "websocket_closed")
		}()

		loop := bridge.New(newWSConn(conn), bridge.Options{
			Device:     s.config.Device,
			ServiceURL: s.serviceURL,
			Heartbeat:  s.config.Heartbeat(),
			RemoteAddr: remoteAddr,
		})
		loop.Run(s.ctx)
	}()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if s.mdns != nil {
		s.mdns.Shutdown()
	}

	// Stop accepting new connections and cancel running bridge loops.
	s.cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Error("Error shutting down HTTP server", zap.Error(err))
	}

	// Close any websocket still open so blocked reads return.
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	logging.Sync()

	return nil
}

// ActiveConnections returns the number of connected clients.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "bridge"
	}
	return name
}
