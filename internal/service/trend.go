package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

const (
	DefaultTrendWindow = 6
	maxMonthQueries    = 3
)

// TrendAggregator builds per-staff selection counts over the most recent months.
type TrendAggregator struct {
	reports ReportRepository
	catalog CatalogRepository
	clock   Clock
	loc     *time.Location
	window  int
	logger  *zap.Logger
}

// NewTrendAggregator creates a TrendAggregator. A window below 1 uses DefaultTrendWindow.
func NewTrendAggregator(reports ReportRepository, catalog CatalogRepository, clock Clock, loc *time.Location, window int, logger *zap.Logger) *TrendAggregator {
	if reports == nil || catalog == nil {
		panic("reports and catalog must not be nil")
	}
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	if window < 1 {
		window = DefaultTrendWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrendAggregator{
		reports: reports,
		catalog: catalog,
		clock:   clock,
		loc:     loc,
		window:  window,
		logger:  logger.Named("trend"),
	}
}

// Window returns the months covered by the next TrendSeries call, oldest first.
func (t *TrendAggregator) Window() []Month {
	current := MonthOf(t.clock.Now(), t.loc)
	months := make([]Month, t.window)
	for i := range months {
		months[i] = current.AddMonths(-(t.window - 1 - i))
	}
	return months
}

// TrendSeries returns one row per month of the window. Every row carries every
// active staff name, zero when nobody selected them that month.
func (t *TrendAggregator) TrendSeries(ctx context.Context) (TrendSeries, error) {
	months := t.Window()

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	staff, err := t.catalog.ListActiveStaff(dbCtx)
	cancel()
	if err != nil {
		return TrendSeries{}, storageError("list active staff", err)
	}

	nameByID := make(map[string]string, len(staff))
	seen := make(map[string]bool, len(staff))
	names := make([]string, 0, len(staff))
	for _, s := range staff {
		nameByID[s.ID] = s.Name
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)

	perMonth := make([][]models.StaffSelectionCount, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxMonthQueries)
	for i, mo := range months {
		g.Go(func() error {
			rows, err := countSelections(gctx, t.reports, mo, t.loc)
			if err != nil {
				return err
			}
			perMonth[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TrendSeries{}, err
	}

	series := TrendSeries{
		Rows:       make([]TrendRow, len(months)),
		StaffNames: names,
	}
	for i, mo := range months {
		counts := make(map[string]int, len(names))
		for _, name := range names {
			counts[name] = 0
		}
		for _, r := range perMonth[i] {
			if name, ok := nameByID[r.StaffID]; ok {
				counts[name] += r.Count
			}
		}
		series.Rows[i] = TrendRow{Month: mo.Label(), Counts: counts}
	}

	t.logger.Info("computed staff selection trend",
		zap.String("from", months[0].String()),
		zap.String("to", months[len(months)-1].String()),
		zap.Int("staff", len(names)))
	return series, nil
}
