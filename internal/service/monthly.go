package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

const unknownName = "Unknown"

// MonthlyAggregator answers "what happened in month M" for the dashboard.
type MonthlyAggregator struct {
	reports ReportRepository
	loc     *time.Location
	logger  *zap.Logger
}

// NewMonthlyAggregator creates a MonthlyAggregator bucketing months in loc.
func NewMonthlyAggregator(reports ReportRepository, loc *time.Location, logger *zap.Logger) *MonthlyAggregator {
	if reports == nil {
		panic("reports must not be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonthlyAggregator{
		reports: reports,
		loc:     loc,
		logger:  logger.Named("monthly"),
	}
}

// StaffSelectionCounts returns how often each staff member was selected in month.
// Staff are joined by id, so inactive staff still appear for past months.
func (m *MonthlyAggregator) StaffSelectionCounts(ctx context.Context, month string) ([]StaffSelection, error) {
	mo, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	rows, err := countSelections(ctx, m.reports, mo, m.loc)
	if err != nil {
		return nil, err
	}

	out := make([]StaffSelection, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = unknownName
		}
		out = append(out, StaffSelection{ID: r.StaffID, Name: name, Count: r.Count})
	}

	m.logger.Info("computed staff selections",
		zap.String("month", mo.String()),
		zap.Int("staff", len(out)))
	return out, nil
}

// DissatisfactionSummary counts NOT_SATISFIED records in month and breaks their
// cited reasons down. Reasons with no citations are omitted.
func (m *MonthlyAggregator) DissatisfactionSummary(ctx context.Context, month string) (DissatisfactionSummary, error) {
	mo, err := ParseMonth(month)
	if err != nil {
		return DissatisfactionSummary{}, err
	}
	start, end := mo.Bounds(m.loc)

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	count, err := m.reports.CountNotSatisfied(dbCtx, start, end)
	if err != nil {
		return DissatisfactionSummary{}, storageError("count not satisfied", err)
	}

	summary := DissatisfactionSummary{Count: count, Breakdown: []ReasonBreakdown{}}
	if count == 0 {
		return summary, nil
	}

	reasons, err := m.reports.CountReasons(dbCtx, start, end)
	if err != nil {
		return DissatisfactionSummary{}, storageError("count reasons", err)
	}
	for _, r := range reasons {
		if r.Count == 0 {
			continue
		}
		desc := r.Description
		if desc == "" {
			desc = unknownName
		}
		summary.Breakdown = append(summary.Breakdown, ReasonBreakdown{Reason: desc, Value: r.Count})
	}

	m.logger.Info("computed dissatisfaction summary",
		zap.String("month", mo.String()),
		zap.Int("count", count),
		zap.Int("reasons", len(summary.Breakdown)))
	return summary, nil
}

// countSelections runs the grouped staff-link count for one month bucket.
func countSelections(ctx context.Context, reports ReportRepository, mo Month, loc *time.Location) ([]models.StaffSelectionCount, error) {
	start, end := mo.Bounds(loc)

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := reports.CountStaffSelections(dbCtx, start, end)
	if err != nil {
		return nil, storageError("count staff selections", err)
	}
	return rows, nil
}
