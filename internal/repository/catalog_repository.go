package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

// CatalogRepository reads and seeds staff, categories and dissatisfaction reasons.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindStaff returns the staff member regardless of the active flag.
func (r *CatalogRepository) FindStaff(ctx context.Context, id string) (models.Staff, error) {
	const query = `
		SELECT id, name, position, image_url, contact_info, active
		FROM staff
		WHERE id = ?
	`

	var s models.Staff
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Position, &s.ImageURL, &s.ContactInfo, &s.Active)
	if err != nil {
		return models.Staff{}, translate("find staff", err)
	}
	return s, nil
}

func (r *CatalogRepository) ListActiveStaff(ctx context.Context) ([]models.Staff, error) {
	const query = `
		SELECT id, name, position, image_url, contact_info, active
		FROM staff
		WHERE active = 1
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListActiveStaff: %w", err)
	}
	defer rows.Close()

	var staff []models.Staff
	for rows.Next() {
		var s models.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Position, &s.ImageURL, &s.ContactInfo, &s.Active); err != nil {
			return nil, fmt.Errorf("scan ListActiveStaff row: %w", err)
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListActiveStaff: %w", err)
	}
	return staff, nil
}

// FindReason returns the reason regardless of the active flag.
func (r *CatalogRepository) FindReason(ctx context.Context, id string) (models.Reason, error) {
	const query = `
		SELECT dr.id, dr.description, COALESCE(dr.category_id, ''), COALESCE(c.name, ''), dr.active
		FROM dissatisfaction_reasons AS dr
		LEFT JOIN categories AS c ON c.id = dr.category_id
		WHERE dr.id = ?
	`

	var reason models.Reason
	err := r.db.QueryRowContext(ctx, query, id).Scan(&reason.ID, &reason.Description, &reason.CategoryID, &reason.CategoryName, &reason.Active)
	if err != nil {
		return models.Reason{}, translate("find reason", err)
	}
	return reason, nil
}

func (r *CatalogRepository) ListActiveReasons(ctx context.Context) ([]models.Reason, error) {
	const query = `
		SELECT dr.id, dr.description, COALESCE(dr.category_id, ''), COALESCE(c.name, ''), dr.active
		FROM dissatisfaction_reasons AS dr
		LEFT JOIN categories AS c ON c.id = dr.category_id
		WHERE dr.active = 1
		ORDER BY dr.description, dr.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListActiveReasons: %w", err)
	}
	defer rows.Close()

	var reasons []models.Reason
	for rows.Next() {
		var reason models.Reason
		if err := rows.Scan(&reason.ID, &reason.Description, &reason.CategoryID, &reason.CategoryName, &reason.Active); err != nil {
			return nil, fmt.Errorf("scan ListActiveReasons row: %w", err)
		}
		reasons = append(reasons, reason)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListActiveReasons: %w", err)
	}
	return reasons, nil
}

func (r *CatalogRepository) CreateStaff(ctx context.Context, s models.Staff) error {
	const query = `
		INSERT INTO staff (id, name, position, image_url, contact_info, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Position, s.ImageURL, s.ContactInfo, s.Active)
	return translate("insert staff", err)
}

// SetStaffActive toggles whether the staff member is offered on the kiosk.
func (r *CatalogRepository) SetStaffActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE staff SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return translate("update staff", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update staff: %w", models.ErrNotFound)
	}
	return nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c models.Category) error {
	const query = `
		INSERT INTO categories (id, name, description)
		VALUES (?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description)
	return translate("insert category", err)
}

func (r *CatalogRepository) CreateReason(ctx context.Context, reason models.Reason) error {
	const query = `
		INSERT INTO dissatisfaction_reasons (id, description, category_id, active)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, reason.ID, reason.Description, nullableString(reason.CategoryID), reason.Active)
	return translate("insert reason", err)
}
