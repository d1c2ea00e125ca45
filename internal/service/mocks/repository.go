package mocks

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

// MockFeedbackRepository is a mock implementation of the FeedbackRepository interface
// for testing the service layer.
type MockFeedbackRepository struct {
	CreateFeedbackFunc           func(ctx context.Context, f models.Feedback) (models.Feedback, error)
	FindFeedbackFunc             func(ctx context.Context, id string) (models.Feedback, error)
	CreateStaffLinkFunc          func(ctx context.Context, link models.StaffLink) (models.StaffLink, error)
	UpdateStaffLinkEmotionFunc   func(ctx context.Context, feedbackID, staffID string, emotion sql.NullString) (models.StaffLink, error)
	CreateReasonLinkFunc         func(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error)
	CreateReasonLinkIfAbsentFunc func(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error)
	ListStaffLinksFunc           func(ctx context.Context, feedbackID string) ([]models.StaffLink, error)
	ListReasonLinksFunc          func(ctx context.Context, feedbackID string) ([]models.ReasonLink, error)
}

func (m *MockFeedbackRepository) CreateFeedback(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	if m.CreateFeedbackFunc != nil {
		return m.CreateFeedbackFunc(ctx, f)
	}
	return models.Feedback{}, errors.New("CreateFeedbackFunc not implemented")
}

func (m *MockFeedbackRepository) FindFeedback(ctx context.Context, id string) (models.Feedback, error) {
	if m.FindFeedbackFunc != nil {
		return m.FindFeedbackFunc(ctx, id)
	}
	return models.Feedback{}, errors.New("FindFeedbackFunc not implemented")
}

func (m *MockFeedbackRepository) CreateStaffLink(ctx context.Context, link models.StaffLink) (models.StaffLink, error) {
	if m.CreateStaffLinkFunc != nil {
		return m.CreateStaffLinkFunc(ctx, link)
	}
	return models.StaffLink{}, errors.New("CreateStaffLinkFunc not implemented")
}

func (m *MockFeedbackRepository) UpdateStaffLinkEmotion(ctx context.Context, feedbackID, staffID string, emotion sql.NullString) (models.StaffLink, error) {
	if m.UpdateStaffLinkEmotionFunc != nil {
		return m.UpdateStaffLinkEmotionFunc(ctx, feedbackID, staffID, emotion)
	}
	return models.StaffLink{}, errors.New("UpdateStaffLinkEmotionFunc not implemented")
}

func (m *MockFeedbackRepository) CreateReasonLink(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error) {
	if m.CreateReasonLinkFunc != nil {
		return m.CreateReasonLinkFunc(ctx, link)
	}
	return models.ReasonLink{}, errors.New("CreateReasonLinkFunc not implemented")
}

func (m *MockFeedbackRepository) CreateReasonLinkIfAbsent(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error) {
	if m.CreateReasonLinkIfAbsentFunc != nil {
		return m.CreateReasonLinkIfAbsentFunc(ctx, link)
	}
	return models.ReasonLink{}, errors.New("CreateReasonLinkIfAbsentFunc not implemented")
}

func (m *MockFeedbackRepository) ListStaffLinks(ctx context.Context, feedbackID string) ([]models.StaffLink, error) {
	if m.ListStaffLinksFunc != nil {
		return m.ListStaffLinksFunc(ctx, feedbackID)
	}
	return nil, errors.New("ListStaffLinksFunc not implemented")
}

func (m *MockFeedbackRepository) ListReasonLinks(ctx context.Context, feedbackID string) ([]models.ReasonLink, error) {
	if m.ListReasonLinksFunc != nil {
		return m.ListReasonLinksFunc(ctx, feedbackID)
	}
	return nil, errors.New("ListReasonLinksFunc not implemented")
}

// MockReportRepository is a mock implementation of the ReportRepository interface.
type MockReportRepository struct {
	CountStaffSelectionsFunc func(ctx context.Context, start, end time.Time) ([]models.StaffSelectionCount, error)
	CountNotSatisfiedFunc    func(ctx context.Context, start, end time.Time) (int, error)
	CountReasonsFunc         func(ctx context.Context, start, end time.Time) ([]models.ReasonCount, error)
}

func (m *MockReportRepository) CountStaffSelections(ctx context.Context, start, end time.Time) ([]models.StaffSelectionCount, error) {
	if m.CountStaffSelectionsFunc != nil {
		return m.CountStaffSelectionsFunc(ctx, start, end)
	}
	return nil, errors.New("CountStaffSelectionsFunc not implemented")
}

func (m *MockReportRepository) CountNotSatisfied(ctx context.Context, start, end time.Time) (int, error) {
	if m.CountNotSatisfiedFunc != nil {
		return m.CountNotSatisfiedFunc(ctx, start, end)
	}
	return 0, errors.New("CountNotSatisfiedFunc not implemented")
}

func (m *MockReportRepository) CountReasons(ctx context.Context, start, end time.Time) ([]models.ReasonCount, error) {
	if m.CountReasonsFunc != nil {
		return m.CountReasonsFunc(ctx, start, end)
	}
	return nil, errors.New("CountReasonsFunc not implemented")
}

// MockCatalogRepository is a mock implementation of the CatalogRepository interface.
type MockCatalogRepository struct {
	FindStaffFunc         func(ctx context.Context, id string) (models.Staff, error)
	ListActiveStaffFunc   func(ctx context.Context) ([]models.Staff, error)
	FindReasonFunc        func(ctx context.Context, id string) (models.Reason, error)
	ListActiveReasonsFunc func(ctx context.Context) ([]models.Reason, error)
}

func (m *MockCatalogRepository) FindStaff(ctx context.Context, id string) (models.Staff, error) {
	if m.FindStaffFunc != nil {
		return m.FindStaffFunc(ctx, id)
	}
	return models.Staff{}, errors.New("FindStaffFunc not implemented")
}

func (m *MockCatalogRepository) ListActiveStaff(ctx context.Context) ([]models.Staff, error) {
	if m.ListActiveStaffFunc != nil {
		return m.ListActiveStaffFunc(ctx)
	}
	return nil, errors.New("ListActiveStaffFunc not implemented")
}

func (m *MockCatalogRepository) FindReason(ctx context.Context, id string) (models.Reason, error) {
	if m.FindReasonFunc != nil {
		return m.FindReasonFunc(ctx, id)
	}
	return models.Reason{}, errors.New("FindReasonFunc not implemented")
}

func (m *MockCatalogRepository) ListActiveReasons(ctx context.Context) ([]models.Reason, error) {
	if m.ListActiveReasonsFunc != nil {
		return m.ListActiveReasonsFunc(ctx)
	}
	return nil, errors.New("ListActiveReasonsFunc not implemented")
}
