package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/kiosk-feedback/pkg/cache"
)

const (
	defaultCatalogTTL = 5 * time.Minute

	cacheKeyActiveStaff   = "catalog:active_staff"
	cacheKeyActiveReasons = "catalog:active_reasons"
)

// CatalogService lists what the kiosk offers: active staff, active reasons and emotions.
type CatalogService struct {
	catalog CatalogRepository
	cache   cache.Store
	sf      singleflight.Group
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCatalogService creates a CatalogService. store may be nil to disable caching.
func NewCatalogService(catalog CatalogRepository, store cache.Store, ttl time.Duration, logger *zap.Logger) *CatalogService {
	if catalog == nil {
		panic("catalog must not be nil")
	}
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		catalog: catalog,
		cache:   store,
		ttl:     ttl,
		logger:  logger.Named("catalog"),
	}
}

// ActiveStaff returns active staff ordered by name.
func (c *CatalogService) ActiveStaff(ctx context.Context) ([]StaffMember, error) {
	return cache.FindAndCache(ctx, c.cache, &c.sf, cacheKeyActiveStaff, c.ttl, c.logger, func(ctx context.Context) ([]StaffMember, error) {
		dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
		defer cancel()

		rows, err := c.catalog.ListActiveStaff(dbCtx)
		if err != nil {
			return nil, storageError("list active staff", err)
		}
		out := make([]StaffMember, 0, len(rows))
		for _, s := range rows {
			out = append(out, StaffMember{ID: s.ID, Name: s.Name, Position: s.Position, ImageURL: s.ImageURL})
		}
		return out, nil
	})
}

// ActiveReasons returns active dissatisfaction reasons ordered by description.
func (c *CatalogService) ActiveReasons(ctx context.Context) ([]ReasonOption, error) {
	return cache.FindAndCache(ctx, c.cache, &c.sf, cacheKeyActiveReasons, c.ttl, c.logger, func(ctx context.Context) ([]ReasonOption, error) {
		dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
		defer cancel()

		rows, err := c.catalog.ListActiveReasons(dbCtx)
		if err != nil {
			return nil, storageError("list active reasons", err)
		}
		out := make([]ReasonOption, 0, len(rows))
		for _, r := range rows {
			out = append(out, ReasonOption{ID: r.ID, Description: r.Description, Category: r.CategoryName})
		}
		return out, nil
	})
}

func (c *CatalogService) Emotions() []EmotionOption {
	return Emotions()
}
