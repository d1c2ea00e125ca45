package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/godilite/kiosk-feedback/internal/config"
	"github.com/godilite/kiosk-feedback/internal/repository"
	"github.com/godilite/kiosk-feedback/internal/repository/models"
	"github.com/godilite/kiosk-feedback/internal/service"
	dbbuilder "github.com/godilite/kiosk-feedback/pkg/database"
)

var (
	staff = []models.Staff{
		{ID: "S1", Name: "John Smith", Position: "Sales Associate", ImageURL: "/images/staff/john-smith.jpg", ContactInfo: "john.smith@example.com", Active: true},
		{ID: "S2", Name: "Sarah Johnson", Position: "Customer Service Representative", ImageURL: "/images/staff/sarah-johnson.jpg", ContactInfo: "sarah.johnson@example.com", Active: true},
		{ID: "S3", Name: "Michael Brown", Position: "Store Manager", ImageURL: "/images/staff/michael-brown.jpg", ContactInfo: "michael.brown@example.com", Active: true},
	}

	categories = []models.Category{
		{ID: "C1", Name: "Service Issues", Description: "Issues related to customer service quality"},
		{ID: "C2", Name: "Product Issues", Description: "Issues related to product availability and quality"},
		{ID: "C3", Name: "Price Issues", Description: "Issues related to pricing and value"},
	}

	reasons = []models.Reason{
		{ID: "D1", Description: "Long waiting time", CategoryID: "C1", Active: true},
		{ID: "D2", Description: "Unfriendly staff", CategoryID: "C1", Active: true},
		{ID: "D3", Description: "Product not available", CategoryID: "C2", Active: true},
		{ID: "D4", Description: "High prices", CategoryID: "C3", Active: true},
		{ID: "D5", Description: "Poor quality products", CategoryID: "C2", Active: true},
	}
)

type sampleFeedback struct {
	id      string
	rating  service.OverallRating
	comment string
	staff   map[string]service.Emotion
	reasons []string
}

var samples = []sampleFeedback{
	{id: "seed-F1", rating: service.RatingGood, comment: "Great service!", staff: map[string]service.Emotion{"S1": service.EmotionHeart}},
	{id: "seed-F2", rating: service.RatingGood, comment: "Very helpful staff", staff: map[string]service.Emotion{"S2": service.EmotionLike}},
	{id: "seed-F3", rating: service.RatingNotSatisfied, comment: "Service was too slow", reasons: []string{"D1"}},
	{id: "seed-F4", rating: service.RatingNotSatisfied, comment: "Staff was rude and product was not in stock", reasons: []string{"D2", "D3"}},
}

// Seeding is safe to rerun: catalog rows that already exist are skipped and
// sample feedback goes through the dedupe link policy.
func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(dbbuilder.SQLiteDSN(cfg.DBPath, cfg.DBBusyTimeout)),
		dbbuilder.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	catalogRepo := repository.NewCatalogRepository(db)
	if err := seedCatalog(ctx, catalogRepo, logger); err != nil {
		logger.Fatal("Failed to seed catalog", zap.Error(err))
	}

	assembler := service.NewFeedbackAssembler(repository.NewFeedbackRepository(db), catalogRepo, service.ReasonLinksDedupe, logger)
	if err := seedFeedback(ctx, assembler); err != nil {
		logger.Fatal("Failed to seed feedback", zap.Error(err))
	}

	logger.Info("Database seeding completed",
		zap.Int("staff", len(staff)),
		zap.Int("categories", len(categories)),
		zap.Int("reasons", len(reasons)),
		zap.Int("feedback", len(samples)))
}

func seedCatalog(ctx context.Context, repo *repository.CatalogRepository, logger *zap.Logger) error {
	for _, s := range staff {
		if err := skipExisting(repo.CreateStaff(ctx, s)); err != nil {
			return err
		}
	}
	for _, c := range categories {
		if err := skipExisting(repo.CreateCategory(ctx, c)); err != nil {
			return err
		}
	}
	for _, r := range reasons {
		if err := skipExisting(repo.CreateReason(ctx, r)); err != nil {
			return err
		}
	}
	logger.Info("Catalog seeded")
	return nil
}

func seedFeedback(ctx context.Context, assembler *service.FeedbackAssembler) error {
	for _, f := range samples {
		if _, err := assembler.EnsureFeedback(ctx, f.id, f.rating, f.comment); err != nil {
			return err
		}
		for staffID, emotion := range f.staff {
			if _, err := assembler.AttachStaff(ctx, f.id, staffID, string(emotion)); err != nil {
				return err
			}
		}
		for _, reasonID := range f.reasons {
			if _, err := assembler.AttachReason(ctx, f.id, reasonID); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipExisting(err error) error {
	if errors.Is(err, models.ErrDuplicateKey) {
		return nil
	}
	return err
}
