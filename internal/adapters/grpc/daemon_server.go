package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
)

// DaemonServer serves the lookup service on a unix domain socket
type DaemonServer struct {
	listener        net.Listener
	socketPath      string
	server          *grpc.Server
	logger          common.Logger
	shutdownTimeout time.Duration
}

// NewDaemonServer creates the socket listener and registers the lookup service
func NewDaemonServer(engine LookupEngine, logger common.Logger, socketPath string) (*DaemonServer, error) {
	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Set socket permissions (owner only)
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s := NewDaemonServerWithListener(engine, logger, listener)
	s.socketPath = socketPath
	return s, nil
}

// NewDaemonServerWithListener serves on an existing listener
func NewDaemonServerWithListener(engine LookupEngine, logger common.Logger, listener net.Listener) *DaemonServer {
	if logger == nil {
		logger = common.NoOpLogger()
	}
	server := grpc.NewServer()
	RegisterLookupServiceServer(server, NewLookupServiceImpl(engine, logger))

	return &DaemonServer{
		listener:        listener,
		server:          server,
		logger:          logger,
		shutdownTimeout: 10 * time.Second,
	}
}

// SetShutdownTimeout bounds how long Serve waits for in-flight RPCs after ctx is done
func (s *DaemonServer) SetShutdownTimeout(d time.Duration) {
	s.shutdownTimeout = d
}

// Addr returns the listening address
func (s *DaemonServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve handles requests until ctx is done, then stops gracefully
func (s *DaemonServer) Serve(ctx context.Context) error {
	s.logger.Log(common.LevelInfo, "daemon server listening", map[string]interface{}{
		"address": s.listener.Addr().String(),
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errChan:
		s.cleanup()
		if err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Log(common.LevelInfo, "initiating graceful shutdown of gRPC server", nil)
	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(s.shutdownTimeout):
		s.server.Stop()
		<-stopped
	}
	<-errChan
	s.cleanup()
	return nil
}

func (s *DaemonServer) cleanup() {
	if s.socketPath != "" {
		_ = os.Remove(s.socketPath)
	}
}
