package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// LookupEngine is the part of lookup.Controller the daemon service needs
type LookupEngine interface {
	Enqueue(target *system.Target)
	StatusSnapshot() (string, time.Time)
	Running() bool
	WorkerState() lookup.WorkerState
	Pending() int
}

var _ LookupEngine = (*lookup.Controller)(nil)

// lookupServiceImpl implements LookupServiceServer on top of a LookupEngine
type lookupServiceImpl struct {
	engine LookupEngine
	logger common.Logger
}

// NewLookupServiceImpl creates a new gRPC service implementation (exported for testing)
func NewLookupServiceImpl(engine LookupEngine, logger common.Logger) LookupServiceServer {
	if logger == nil {
		logger = common.NoOpLogger()
	}
	return &lookupServiceImpl{engine: engine, logger: logger}
}

// Enqueue parses the request into a target and hands it to the worker
func (s *lookupServiceImpl) Enqueue(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	target, err := system.ParseTarget(stringField(req, "name"), stringField(req, "address"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.engine.Enqueue(target)
	s.logger.Log(common.LevelInfo, "target enqueued", map[string]interface{}{
		"target": target.DisplayName(),
		"source": "grpc",
	})
	return &emptypb.Empty{}, nil
}

// Status reports the latest display string and the worker state
func (s *lookupServiceImpl) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	value, updatedAt := s.engine.StatusSnapshot()
	return ToProtobufStatus(StatusInfo{
		Status:    value,
		UpdatedAt: updatedAt,
		Running:   s.engine.Running(),
		State:     s.engine.WorkerState().String(),
		Pending:   s.engine.Pending(),
	}), nil
}
