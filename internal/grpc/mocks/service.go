package mocks

import (
	"context"
	"errors"

	"github.com/godilite/kiosk-feedback/internal/service"
)

// MockFeedbackAssembler is a mock implementation of the assembler consumed by
// the gRPC and HTTP handlers. It uses function-based mocking for flexibility.
type MockFeedbackAssembler struct {
	EnsureFeedbackFunc func(ctx context.Context, id string, rating service.OverallRating, comment string) (service.FeedbackRecord, error)
	AttachStaffFunc    func(ctx context.Context, feedbackID, staffID, emotion string) (service.StaffLink, error)
	AttachReasonFunc   func(ctx context.Context, feedbackID, reasonID string) (service.ReasonLink, error)
	FeedbackFunc       func(ctx context.Context, id string) (service.FeedbackDetail, error)
}

func (m *MockFeedbackAssembler) EnsureFeedback(ctx context.Context, id string, rating service.OverallRating, comment string) (service.FeedbackRecord, error) {
	if m.EnsureFeedbackFunc != nil {
		return m.EnsureFeedbackFunc(ctx, id, rating, comment)
	}
	return service.FeedbackRecord{}, errors.New("EnsureFeedbackFunc not implemented")
}

func (m *MockFeedbackAssembler) AttachStaff(ctx context.Context, feedbackID, staffID, emotion string) (service.StaffLink, error) {
	if m.AttachStaffFunc != nil {
		return m.AttachStaffFunc(ctx, feedbackID, staffID, emotion)
	}
	return service.StaffLink{}, errors.New("AttachStaffFunc not implemented")
}

func (m *MockFeedbackAssembler) AttachReason(ctx context.Context, feedbackID, reasonID string) (service.ReasonLink, error) {
	if m.AttachReasonFunc != nil {
		return m.AttachReasonFunc(ctx, feedbackID, reasonID)
	}
	return service.ReasonLink{}, errors.New("AttachReasonFunc not implemented")
}

func (m *MockFeedbackAssembler) Feedback(ctx context.Context, id string) (service.FeedbackDetail, error) {
	if m.FeedbackFunc != nil {
		return m.FeedbackFunc(ctx, id)
	}
	return service.FeedbackDetail{}, errors.New("FeedbackFunc not implemented")
}

// MockMonthlyAggregator is a mock implementation of the monthly report service.
type MockMonthlyAggregator struct {
	StaffSelectionCountsFunc   func(ctx context.Context, month string) ([]service.StaffSelection, error)
	DissatisfactionSummaryFunc func(ctx context.Context, month string) (service.DissatisfactionSummary, error)
}

func (m *MockMonthlyAggregator) StaffSelectionCounts(ctx context.Context, month string) ([]service.StaffSelection, error) {
	if m.StaffSelectionCountsFunc != nil {
		return m.StaffSelectionCountsFunc(ctx, month)
	}
	return nil, errors.New("StaffSelectionCountsFunc not implemented")
}

func (m *MockMonthlyAggregator) DissatisfactionSummary(ctx context.Context, month string) (service.DissatisfactionSummary, error) {
	if m.DissatisfactionSummaryFunc != nil {
		return m.DissatisfactionSummaryFunc(ctx, month)
	}
	return service.DissatisfactionSummary{}, errors.New("DissatisfactionSummaryFunc not implemented")
}

// MockTrendAggregator is a mock implementation of the trend report service.
type MockTrendAggregator struct {
	TrendSeriesFunc func(ctx context.Context) (service.TrendSeries, error)
}

func (m *MockTrendAggregator) TrendSeries(ctx context.Context) (service.TrendSeries, error) {
	if m.TrendSeriesFunc != nil {
		return m.TrendSeriesFunc(ctx)
	}
	return service.TrendSeries{}, errors.New("TrendSeriesFunc not implemented")
}

// MockCatalog is a mock implementation of the catalog service.
// Emotions falls back to the real catalog when EmotionsFunc is unset.
type MockCatalog struct {
	ActiveStaffFunc   func(ctx context.Context) ([]service.StaffMember, error)
	ActiveReasonsFunc func(ctx context.Context) ([]service.ReasonOption, error)
	EmotionsFunc      func() []service.EmotionOption
}

func (m *MockCatalog) ActiveStaff(ctx context.Context) ([]service.StaffMember, error) {
	if m.ActiveStaffFunc != nil {
		return m.ActiveStaffFunc(ctx)
	}
	return nil, errors.New("ActiveStaffFunc not implemented")
}

func (m *MockCatalog) ActiveReasons(ctx context.Context) ([]service.ReasonOption, error) {
	if m.ActiveReasonsFunc != nil {
		return m.ActiveReasonsFunc(ctx)
	}
	return nil, errors.New("ActiveReasonsFunc not implemented")
}

func (m *MockCatalog) Emotions() []service.EmotionOption {
	if m.EmotionsFunc != nil {
		return m.EmotionsFunc()
	}
	return service.Emotions()
}
