package http

import (
	"context"

	"github.com/godilite/kiosk-feedback/internal/service"
)

type FeedbackAssembler interface {
	EnsureFeedback(ctx context.Context, id string, rating service.OverallRating, comment string) (service.FeedbackRecord, error)
	AttachStaff(ctx context.Context, feedbackID, staffID, emotion string) (service.StaffLink, error)
	AttachReason(ctx context.Context, feedbackID, reasonID string) (service.ReasonLink, error)
	Feedback(ctx context.Context, id string) (service.FeedbackDetail, error)
}

type MonthlyAggregator interface {
	StaffSelectionCounts(ctx context.Context, month string) ([]service.StaffSelection, error)
	DissatisfactionSummary(ctx context.Context, month string) (service.DissatisfactionSummary, error)
}

type TrendAggregator interface {
	TrendSeries(ctx context.Context) (service.TrendSeries, error)
}

type Catalog interface {
	ActiveStaff(ctx context.Context) ([]service.StaffMember, error)
	ActiveReasons(ctx context.Context) ([]service.ReasonOption, error)
	Emotions() []service.EmotionOption
}
