package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/kiosk-feedback/internal/service"
)

const defaultGRPCTimeout = 10 * time.Second

type GRPCHandlers struct {
	assembler FeedbackAssembler
	monthly   MonthlyAggregator
	trend     TrendAggregator
	catalog   Catalog
	logger    *zap.Logger
	timeout   time.Duration
}

var (
	_ FeedbackServiceServer = (*GRPCHandlers)(nil)
	_ ReportServiceServer   = (*GRPCHandlers)(nil)
)

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(assembler FeedbackAssembler, monthly MonthlyAggregator, trend TrendAggregator, catalog Catalog, logger *zap.Logger) *GRPCHandlers {
	if assembler == nil || monthly == nil || trend == nil || catalog == nil {
		panic("nil service provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandlers{
		assembler: assembler,
		monthly:   monthly,
		trend:     trend,
		catalog:   catalog,
		logger:    logger.Named("grpc-handler"),
		timeout:   defaultGRPCTimeout,
	}
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		s.logger.Info("invalid request", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrReference):
		s.logger.Info("unknown reference", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed", op)
	}
}

func (s *GRPCHandlers) EnsureFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rating, err := service.ParseOverallRating(stringField(req, "rating"))
	if err != nil {
		return nil, s.handleError(ctx, "EnsureFeedback", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.assembler.EnsureFeedback(ctx, stringField(req, "feedbackId"), rating, stringField(req, "comment"))
	if err != nil {
		return nil, s.handleError(ctx, "EnsureFeedback", err)
	}
	return s.respond("EnsureFeedback", rec)
}

func (s *GRPCHandlers) AttachStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	link, err := s.assembler.AttachStaff(ctx,
		stringField(req, "feedbackId"),
		stringField(req, "staffId"),
		stringField(req, "rating"))
	if err != nil {
		return nil, s.handleError(ctx, "AttachStaff", err)
	}
	return s.respond("AttachStaff", link)
}

func (s *GRPCHandlers) AttachReason(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	link, err := s.assembler.AttachReason(ctx, stringField(req, "feedbackId"), stringField(req, "reasonId"))
	if err != nil {
		return nil, s.handleError(ctx, "AttachReason", err)
	}
	return s.respond("AttachReason", map[string]any{"success": true, "link": link})
}

func (s *GRPCHandlers) GetFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	detail, err := s.assembler.Feedback(ctx, stringField(req, "feedbackId"))
	if err != nil {
		return nil, s.handleError(ctx, "GetFeedback", err)
	}
	return s.respond("GetFeedback", detail)
}

func (s *GRPCHandlers) StaffSelectionCounts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.monthly.StaffSelectionCounts(ctx, stringField(req, "month"))
	if err != nil {
		return nil, s.handleError(ctx, "StaffSelectionCounts", err)
	}
	return s.respond("StaffSelectionCounts", map[string]any{"staff": rows})
}

func (s *GRPCHandlers) DissatisfactionSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := s.monthly.DissatisfactionSummary(ctx, stringField(req, "month"))
	if err != nil {
		return nil, s.handleError(ctx, "DissatisfactionSummary", err)
	}
	return s.respond("DissatisfactionSummary", summary)
}

func (s *GRPCHandlers) TrendSeries(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	series, err := s.trend.TrendSeries(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "TrendSeries", err)
	}
	return s.respond("TrendSeries", series)
}

func (s *GRPCHandlers) ListStaff(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	staff, err := s.catalog.ActiveStaff(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "ListStaff", err)
	}
	return s.respond("ListStaff", map[string]any{"staff": staff})
}

func (s *GRPCHandlers) ListReasons(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reasons, err := s.catalog.ActiveReasons(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "ListReasons", err)
	}
	return s.respond("ListReasons", map[string]any{"reasons": reasons})
}

func (s *GRPCHandlers) ListEmotions(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("ListEmotions", map[string]any{"emotions": s.catalog.Emotions()})
}

func (s *GRPCHandlers) respond(op string, v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		s.logger.Error("failed to encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed", op)
	}
	return out, nil
}

// toStruct encodes v through its JSON form so the gRPC and HTTP payloads stay identical.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("response is not an object: %w", err)
	}
	return structpb.NewStruct(fields)
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}
