package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateFeedback inserts a new record. A record with the same id yields models.ErrDuplicateKey.
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	const query = `
		INSERT INTO feedback (id, overall_rating, comment)
		VALUES (?, ?, ?)
		RETURNING created_at
	`

	var createdAt string
	if err := r.db.QueryRowContext(ctx, query, f.ID, f.OverallRating, f.Comment).Scan(&createdAt); err != nil {
		return models.Feedback{}, translate("insert feedback", err)
	}

	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return models.Feedback{}, err
	}
	f.CreatedAt = ts
	return f, nil
}

func (r *FeedbackRepository) FindFeedback(ctx context.Context, id string) (models.Feedback, error) {
	const query = `
		SELECT id, overall_rating, comment, created_at
		FROM feedback
		WHERE id = ?
	`

	var (
		f         models.Feedback
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.OverallRating, &f.Comment, &createdAt)
	if err != nil {
		return models.Feedback{}, translate("find feedback", err)
	}
	if f.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Feedback{}, err
	}
	return f, nil
}

// CreateStaffLink inserts a link. An existing (feedback_id, staff_id) pair yields models.ErrDuplicateKey.
func (r *FeedbackRepository) CreateStaffLink(ctx context.Context, link models.StaffLink) (models.StaffLink, error) {
	const query = `
		INSERT INTO feedback_staff (id, feedback_id, staff_id, emotion)
		VALUES (?, ?, ?, ?)
		RETURNING created_at, updated_at
	`

	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, link.ID, link.FeedbackID, link.StaffID, link.Emotion).Scan(&createdAt, &updatedAt)
	if err != nil {
		return models.StaffLink{}, translate("insert staff link", err)
	}
	if link.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.StaffLink{}, err
	}
	if link.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.StaffLink{}, err
	}
	return link, nil
}

// UpdateStaffLinkEmotion sets the emotion on an existing link. A null emotion keeps the stored value.
func (r *FeedbackRepository) UpdateStaffLinkEmotion(ctx context.Context, feedbackID, staffID string, emotion sql.NullString) (models.StaffLink, error) {
	const query = `
		UPDATE feedback_staff
		SET emotion = COALESCE(?, emotion),
			updated_at = strftime('%Y-%m-%d %H:%M:%f', 'now')
		WHERE feedback_id = ? AND staff_id = ?
		RETURNING id, feedback_id, staff_id, emotion, created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query, emotion, feedbackID, staffID)
	link, err := scanStaffLink(row)
	if err != nil {
		return models.StaffLink{}, translate("update staff link", err)
	}
	return link, nil
}

// CreateReasonLink always inserts a new link.
func (r *FeedbackRepository) CreateReasonLink(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error) {
	const query = `
		INSERT INTO feedback_reasons (id, feedback_id, reason_id)
		VALUES (?, ?, ?)
		RETURNING created_at
	`

	var createdAt string
	if err := r.db.QueryRowContext(ctx, query, link.ID, link.FeedbackID, link.ReasonID).Scan(&createdAt); err != nil {
		return models.ReasonLink{}, translate("insert reason link", err)
	}

	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return models.ReasonLink{}, err
	}
	link.CreatedAt = ts
	return link, nil
}

// CreateReasonLinkIfAbsent inserts the link only when the (feedback, reason) pair
// has no link yet; otherwise it returns the oldest existing link.
func (r *FeedbackRepository) CreateReasonLinkIfAbsent(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error) {
	const insert = `
		INSERT INTO feedback_reasons (id, feedback_id, reason_id)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM feedback_reasons WHERE feedback_id = ? AND reason_id = ?
		)
		RETURNING created_at
	`

	var createdAt string
	err := r.db.QueryRowContext(ctx, insert,
		link.ID, link.FeedbackID, link.ReasonID,
		link.FeedbackID, link.ReasonID,
	).Scan(&createdAt)
	switch {
	case err == nil:
		if link.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return models.ReasonLink{}, err
		}
		return link, nil
	case errors.Is(err, sql.ErrNoRows):
		// already linked
	default:
		return models.ReasonLink{}, translate("insert reason link", err)
	}

	const existing = `
		SELECT id, feedback_id, reason_id, created_at
		FROM feedback_reasons
		WHERE feedback_id = ? AND reason_id = ?
		ORDER BY created_at, id
		LIMIT 1
	`
	found, err := scanReasonLink(r.db.QueryRowContext(ctx, existing, link.FeedbackID, link.ReasonID))
	if err != nil {
		return models.ReasonLink{}, translate("find reason link", err)
	}
	return found, nil
}

func (r *FeedbackRepository) ListStaffLinks(ctx context.Context, feedbackID string) ([]models.StaffLink, error) {
	const query = `
		SELECT id, feedback_id, staff_id, emotion, created_at, updated_at
		FROM feedback_staff
		WHERE feedback_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("query ListStaffLinks: %w", err)
	}
	defer rows.Close()

	var links []models.StaffLink
	for rows.Next() {
		link, err := scanStaffLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListStaffLinks row: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListStaffLinks: %w", err)
	}
	return links, nil
}

func (r *FeedbackRepository) ListReasonLinks(ctx context.Context, feedbackID string) ([]models.ReasonLink, error) {
	const query = `
		SELECT id, feedback_id, reason_id, created_at
		FROM feedback_reasons
		WHERE feedback_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("query ListReasonLinks: %w", err)
	}
	defer rows.Close()

	var links []models.ReasonLink
	for rows.Next() {
		link, err := scanReasonLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListReasonLinks row: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListReasonLinks: %w", err)
	}
	return links, nil
}

// CountStaffSelections groups staff links whose feedback was created in [start, end).
func (r *FeedbackRepository) CountStaffSelections(ctx context.Context, start, end time.Time) ([]models.StaffSelectionCount, error) {
	const query = `
		SELECT
			fs.staff_id,
			COALESCE(s.name, '') AS name,
			COUNT(fs.id) AS selections
		FROM feedback_staff AS fs
		JOIN feedback AS f ON f.id = fs.feedback_id
		LEFT JOIN staff AS s ON s.id = fs.staff_id
		WHERE f.created_at >= ? AND f.created_at < ?
		GROUP BY fs.staff_id
		ORDER BY fs.staff_id
	`

	rows, err := r.db.QueryContext(ctx, query, FormatTimestamp(start), FormatTimestamp(end))
	if err != nil {
		return nil, fmt.Errorf("query CountStaffSelections: %w", err)
	}
	defer rows.Close()

	var results []models.StaffSelectionCount
	for rows.Next() {
		var c models.StaffSelectionCount
		if err := rows.Scan(&c.StaffID, &c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scan CountStaffSelections row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate CountStaffSelections: %w", err)
	}
	return results, nil
}

// CountNotSatisfied counts NOT_SATISFIED feedback created in [start, end).
func (r *FeedbackRepository) CountNotSatisfied(ctx context.Context, start, end time.Time) (int, error) {
	const query = `
		SELECT COUNT(id)
		FROM feedback
		WHERE overall_rating = 'NOT_SATISFIED'
			AND created_at >= ? AND created_at < ?
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, FormatTimestamp(start), FormatTimestamp(end)).Scan(&count); err != nil {
		return 0, fmt.Errorf("query CountNotSatisfied: %w", err)
	}
	return count, nil
}

// CountReasons groups reason links of NOT_SATISFIED feedback created in [start, end).
func (r *FeedbackRepository) CountReasons(ctx context.Context, start, end time.Time) ([]models.ReasonCount, error) {
	const query = `
		SELECT
			fr.reason_id,
			COALESCE(dr.description, '') AS description,
			COUNT(fr.id) AS citations
		FROM feedback_reasons AS fr
		JOIN feedback AS f ON f.id = fr.feedback_id
		LEFT JOIN dissatisfaction_reasons AS dr ON dr.id = fr.reason_id
		WHERE f.overall_rating = 'NOT_SATISFIED'
			AND f.created_at >= ? AND f.created_at < ?
		GROUP BY fr.reason_id
		ORDER BY citations DESC, fr.reason_id
	`

	rows, err := r.db.QueryContext(ctx, query, FormatTimestamp(start), FormatTimestamp(end))
	if err != nil {
		return nil, fmt.Errorf("query CountReasons: %w", err)
	}
	defer rows.Close()

	var results []models.ReasonCount
	for rows.Next() {
		var c models.ReasonCount
		if err := rows.Scan(&c.ReasonID, &c.Description, &c.Count); err != nil {
			return nil, fmt.Errorf("scan CountReasons row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate CountReasons: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStaffLink(s scanner) (models.StaffLink, error) {
	var (
		link                 models.StaffLink
		createdAt, updatedAt string
	)
	if err := s.Scan(&link.ID, &link.FeedbackID, &link.StaffID, &link.Emotion, &createdAt, &updatedAt); err != nil {
		return models.StaffLink{}, err
	}
	var err error
	if link.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.StaffLink{}, err
	}
	if link.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.StaffLink{}, err
	}
	return link, nil
}

func scanReasonLink(s scanner) (models.ReasonLink, error) {
	var (
		link      models.ReasonLink
		createdAt string
	)
	if err := s.Scan(&link.ID, &link.FeedbackID, &link.ReasonID, &createdAt); err != nil {
		return models.ReasonLink{}, err
	}
	var err error
	if link.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.ReasonLink{}, err
	}
	return link, nil
}
