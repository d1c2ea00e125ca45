package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

const (
	dbTimeout = 2 * time.Second
)

// ReasonLinkPolicy decides what a repeated (feedback, reason) submission does.
type ReasonLinkPolicy string

const (
	// ReasonLinksAllow stores every submission as its own link.
	ReasonLinksAllow ReasonLinkPolicy = "allow"
	// ReasonLinksDedupe keeps a single link per (feedback, reason) pair.
	ReasonLinksDedupe ReasonLinkPolicy = "dedupe"
)

func ParseReasonLinkPolicy(s string) (ReasonLinkPolicy, error) {
	switch p := ReasonLinkPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ReasonLinksAllow, ReasonLinksDedupe:
		return p, nil
	case "":
		return ReasonLinksAllow, nil
	default:
		return "", validationError("unknown reason link policy %q", s)
	}
}

// FeedbackAssembler lets independent kiosk steps converge on one feedback record.
type FeedbackAssembler struct {
	feedback FeedbackRepository
	catalog  CatalogRepository
	policy   ReasonLinkPolicy
	newID    func() string
	logger   *zap.Logger
}

// NewFeedbackAssembler creates a new FeedbackAssembler instance.
func NewFeedbackAssembler(feedback FeedbackRepository, catalog CatalogRepository, policy ReasonLinkPolicy, logger *zap.Logger) *FeedbackAssembler {
	if feedback == nil || catalog == nil {
		panic("feedback and catalog repositories must not be nil")
	}
	if policy == "" {
		policy = ReasonLinksAllow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackAssembler{
		feedback: feedback,
		catalog:  catalog,
		policy:   policy,
		newID:    uuid.NewString,
		logger:   logger.Named("assembler"),
	}
}

// EnsureFeedback returns the record with the given id, creating it with rating
// when it does not exist yet. Concurrent callers for one id all observe the same record.
func (a *FeedbackAssembler) EnsureFeedback(ctx context.Context, id string, rating OverallRating, comment string) (FeedbackRecord, error) {
	if strings.TrimSpace(id) == "" {
		return FeedbackRecord{}, validationError("feedback id is required")
	}
	if !rating.Valid() {
		return FeedbackRecord{}, validationError("unknown overall rating %q", rating)
	}

	rec, err := a.ensure(ctx, id, rating, comment)
	if err != nil {
		return FeedbackRecord{}, err
	}
	return toFeedbackRecord(rec), nil
}

// ensure inserts first and reads on conflict, so there is no check-then-insert window.
func (a *FeedbackAssembler) ensure(ctx context.Context, id string, rating OverallRating, comment string) (models.Feedback, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	created, err := a.feedback.CreateFeedback(dbCtx, models.Feedback{
		ID:            id,
		OverallRating: string(rating),
		Comment:       sql.NullString{String: comment, Valid: comment != ""},
	})
	if err == nil {
		a.logger.Debug("feedback created",
			zap.String("feedback_id", id),
			zap.String("rating", string(rating)))
		return created, nil
	}
	if !errors.Is(err, models.ErrDuplicateKey) {
		return models.Feedback{}, storageError("create feedback", err)
	}

	existing, err := a.feedback.FindFeedback(dbCtx, id)
	if err != nil {
		return models.Feedback{}, storageError("find feedback", err)
	}
	return existing, nil
}

// AttachStaff records that staffID was selected within feedbackID, creating the
// feedback as GOOD when needed. Resubmitting the pair updates only the emotion;
// an empty emotion leaves a stored one untouched.
func (a *FeedbackAssembler) AttachStaff(ctx context.Context, feedbackID, staffID, emotion string) (StaffLink, error) {
	if strings.TrimSpace(feedbackID) == "" {
		return StaffLink{}, validationError("feedback id is required")
	}
	if strings.TrimSpace(staffID) == "" {
		return StaffLink{}, validationError("staff id is required")
	}

	var stored sql.NullString
	if strings.TrimSpace(emotion) != "" {
		e, err := ParseEmotion(emotion)
		if err != nil {
			return StaffLink{}, err
		}
		stored = sql.NullString{String: string(e), Valid: true}
	}

	if err := a.requireStaff(ctx, staffID); err != nil {
		return StaffLink{}, err
	}
	if _, err := a.ensure(ctx, feedbackID, RatingGood, ""); err != nil {
		return StaffLink{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	link, err := a.feedback.CreateStaffLink(dbCtx, models.StaffLink{
		ID:         a.newID(),
		FeedbackID: feedbackID,
		StaffID:    staffID,
		Emotion:    stored,
	})
	if errors.Is(err, models.ErrDuplicateKey) {
		a.logger.Debug("staff link exists, updating emotion",
			zap.String("feedback_id", feedbackID),
			zap.String("staff_id", staffID))
		link, err = a.feedback.UpdateStaffLinkEmotion(dbCtx, feedbackID, staffID, stored)
	}
	if err != nil {
		return StaffLink{}, storageError("attach staff", err)
	}
	return toStaffLink(link), nil
}

// AttachReason cites reasonID within feedbackID, creating the feedback as
// NOT_SATISFIED when needed.
func (a *FeedbackAssembler) AttachReason(ctx context.Context, feedbackID, reasonID string) (ReasonLink, error) {
	if strings.TrimSpace(feedbackID) == "" {
		return ReasonLink{}, validationError("feedback id is required")
	}
	if strings.TrimSpace(reasonID) == "" {
		return ReasonLink{}, validationError("reason id is required")
	}

	if err := a.requireReason(ctx, reasonID); err != nil {
		return ReasonLink{}, err
	}
	if _, err := a.ensure(ctx, feedbackID, RatingNotSatisfied, ""); err != nil {
		return ReasonLink{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	candidate := models.ReasonLink{
		ID:         a.newID(),
		FeedbackID: feedbackID,
		ReasonID:   reasonID,
	}

	var (
		link models.ReasonLink
		err  error
	)
	switch a.policy {
	case ReasonLinksDedupe:
		link, err = a.feedback.CreateReasonLinkIfAbsent(dbCtx, candidate)
	default:
		link, err = a.feedback.CreateReasonLink(dbCtx, candidate)
	}
	if err != nil {
		return ReasonLink{}, storageError("attach reason", err)
	}
	return toReasonLink(link), nil
}

// Feedback returns a record with its staff and reason links.
func (a *FeedbackAssembler) Feedback(ctx context.Context, id string) (FeedbackDetail, error) {
	if strings.TrimSpace(id) == "" {
		return FeedbackDetail{}, validationError("feedback id is required")
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rec, err := a.feedback.FindFeedback(dbCtx, id)
	if errors.Is(err, models.ErrNotFound) {
		return FeedbackDetail{}, referenceError("feedback %q does not exist", id)
	}
	if err != nil {
		return FeedbackDetail{}, storageError("find feedback", err)
	}

	staffLinks, err := a.feedback.ListStaffLinks(dbCtx, id)
	if err != nil {
		return FeedbackDetail{}, storageError("list staff links", err)
	}
	reasonLinks, err := a.feedback.ListReasonLinks(dbCtx, id)
	if err != nil {
		return FeedbackDetail{}, storageError("list reason links", err)
	}

	detail := FeedbackDetail{
		FeedbackRecord: toFeedbackRecord(rec),
		Staff:          make([]StaffLink, 0, len(staffLinks)),
		Reasons:        make([]ReasonLink, 0, len(reasonLinks)),
	}
	for _, l := range staffLinks {
		detail.Staff = append(detail.Staff, toStaffLink(l))
	}
	for _, l := range reasonLinks {
		detail.Reasons = append(detail.Reasons, toReasonLink(l))
	}
	return detail, nil
}

func (a *FeedbackAssembler) requireStaff(ctx context.Context, staffID string) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := a.catalog.FindStaff(dbCtx, staffID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound):
		return referenceError("staff %q does not exist", staffID)
	default:
		return storageError("find staff", err)
	}
}

func (a *FeedbackAssembler) requireReason(ctx context.Context, reasonID string) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := a.catalog.FindReason(dbCtx, reasonID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound):
		return referenceError("dissatisfaction reason %q does not exist", reasonID)
	default:
		return storageError("find reason", err)
	}
}

func toFeedbackRecord(f models.Feedback) FeedbackRecord {
	return FeedbackRecord{
		ID:        f.ID,
		Rating:    OverallRating(f.OverallRating),
		Comment:   f.Comment.String,
		CreatedAt: f.CreatedAt,
	}
}

func toStaffLink(l models.StaffLink) StaffLink {
	return StaffLink{
		ID:         l.ID,
		FeedbackID: l.FeedbackID,
		StaffID:    l.StaffID,
		Emotion:    Emotion(l.Emotion.String),
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func toReasonLink(l models.ReasonLink) ReasonLink {
	return ReasonLink{
		ID:         l.ID,
		FeedbackID: l.FeedbackID,
		ReasonID:   l.ReasonID,
		CreatedAt:  l.CreatedAt,
	}
}
