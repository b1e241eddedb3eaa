package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/habesha-match/internal/config"
	"github.com/oggyb/habesha-match/internal/logger"
)

// GRPCServer wraps a grpc.Server with the standard health service.
type GRPCServer struct {
	srv    *grpc.Server
	health *health.Server
	log    *slog.Logger
}

// NewGRPCServer registers all provided services plus health and reflection.
// Every registered service starts out SERVING.
func NewGRPCServer(log *slog.Logger, registrars ...Registrar) *GRPCServer {
	if log == nil {
		log = logger.L()
	}
	s := &GRPCServer{
		srv:    grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary(log))),
		health: health.NewServer(),
		log:    log,
	}

	// register all services
	for _, r := range registrars {
		r.Register(s.srv)
	}
	for name := range s.srv.GetServiceInfo() {
		s.health.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(s.srv, s.health)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(s.srv)
	return s
}

// Serve blocks until lis fails or ctx is done. On ctx done health flips to
// NOT_SERVING and in-flight calls get up to grace to finish.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(lis) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.health.Shutdown()
	stopped := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(grace):
		s.log.Warn("grpc graceful stop timed out, forcing")
		s.srv.Stop()
	}
	return nil
}

// Listen opens the configured gRPC address.
func Listen(cfg *config.Config) (net.Listener, error) {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return lis, nil
}

// StartGRPCServer boots a gRPC server on the configured address and serves
// until ctx is done.
func StartGRPCServer(ctx context.Context, cfg *config.Config, registrars ...Registrar) error {
	lis, err := Listen(cfg)
	if err != nil {
		return err
	}
	return NewGRPCServer(logger.L(), registrars...).Serve(ctx, lis, 5*time.Second)
}

func logUnary(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Debug("grpc call failed", "method", info.FullMethod, "dur", time.Since(start), "err", err)
		}
		return resp, err
	}
}
