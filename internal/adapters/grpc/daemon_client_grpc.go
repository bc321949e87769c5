package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// LookupClientGRPC talks to a running daemon
type LookupClientGRPC struct {
	conn *grpc.ClientConn
}

// NewLookupClientGRPC creates a new gRPC daemon client
// socketPath should be a Unix domain socket path (e.g., "/tmp/edsm-checker.sock")
func NewLookupClientGRPC(socketPath string) (*LookupClientGRPC, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return NewLookupClientGRPCWithConn(conn), nil
}

// NewLookupClientGRPCWithConn wraps an existing connection; Close closes it
func NewLookupClientGRPCWithConn(conn *grpc.ClientConn) *LookupClientGRPC {
	return &LookupClientGRPC{conn: conn}
}

// Close closes the gRPC connection
func (c *LookupClientGRPC) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Enqueue asks the daemon to look up a target by name and/or catalog address
func (c *LookupClientGRPC) Enqueue(ctx context.Context, name, address string) error {
	if err := c.conn.Invoke(ctx, enqueueMethod, ToProtobufTarget(name, address), new(emptypb.Empty)); err != nil {
		return fmt.Errorf("failed to enqueue target: %w", err)
	}
	return nil
}

// Status fetches the daemon's latest display string
func (c *LookupClientGRPC) Status(ctx context.Context) (StatusInfo, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, statusMethod, new(emptypb.Empty), out); err != nil {
		return StatusInfo{}, fmt.Errorf("failed to get status: %w", err)
	}
	return FromProtobufStatus(out), nil
}
