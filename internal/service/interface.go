package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

// FeedbackRepository is the write side of the store used by the assembler.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, f models.Feedback) (models.Feedback, error)
	FindFeedback(ctx context.Context, id string) (models.Feedback, error)
	CreateStaffLink(ctx context.Context, link models.StaffLink) (models.StaffLink, error)
	UpdateStaffLinkEmotion(ctx context.Context, feedbackID, staffID string, emotion sql.NullString) (models.StaffLink, error)
	CreateReasonLink(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error)
	CreateReasonLinkIfAbsent(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error)
	ListStaffLinks(ctx context.Context, feedbackID string) ([]models.StaffLink, error)
	ListReasonLinks(ctx context.Context, feedbackID string) ([]models.ReasonLink, error)
}

// ReportRepository runs the grouped counts behind the dashboard. Every window is [start, end).
type ReportRepository interface {
	CountStaffSelections(ctx context.Context, start, end time.Time) ([]models.StaffSelectionCount, error)
	CountNotSatisfied(ctx context.Context, start, end time.Time) (int, error)
	CountReasons(ctx context.Context, start, end time.Time) ([]models.ReasonCount, error)
}

type CatalogRepository interface {
	FindStaff(ctx context.Context, id string) (models.Staff, error)
	ListActiveStaff(ctx context.Context) ([]models.Staff, error)
	FindReason(ctx context.Context, id string) (models.Reason, error)
	ListActiveReasons(ctx context.Context) ([]models.Reason, error)
}

// Clock supplies "now" for month windows.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var SystemClock Clock = ClockFunc(time.Now)
