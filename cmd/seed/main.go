package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	"socialnet/internal/db"
	"socialnet/internal/logging"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

var defaultPackages = []model.Package{
	{Name: "Basic", Price: decimal.RequireFromString("4.99"), PeriodNum: 1, Period: model.PeriodMonth},
	{Name: "Pro", Price: decimal.RequireFromString("49.99"), PeriodNum: 1, Period: model.PeriodYear},
	{Name: "Lifetime", Price: decimal.RequireFromString("199.00"), PeriodNum: 1, Period: model.PeriodLife},
}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Debug)
	slog.SetDefault(logger)

	logger.Info("starting seed")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, logger, cfg.Debug)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	admin, err := seedAdmin(ctx, gormDB, cfg)
	if err != nil {
		logger.Error("seeding admin failed", "error", err)
		os.Exit(1)
	}
	logger.Info("admin ready", "user_id", admin.ID, "username", admin.Username)

	if err := seedPackages(ctx, gormDB); err != nil {
		logger.Error("seeding packages failed", "error", err)
		os.Exit(1)
	}

	event, err := seedEvent(ctx, gormDB, admin.ID)
	if err != nil {
		logger.Error("seeding demo event failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed completed", "event_id", event.ID, "packages", len(defaultPackages))
}

func seedAdmin(ctx context.Context, gormDB *gorm.DB, cfg *config.Config) (*model.User, error) {
	users := repository.NewUserRepository(gormDB)
	email := getEnv("SEED_ADMIN_EMAIL", "admin@example.com")

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.NewHasher(cfg.BcryptCost).Hash(getEnv("SEED_ADMIN_PASSWORD", "Admin123!"))
	if err != nil {
		return nil, err
	}
	admin := &model.User{
		Group:        model.GroupAdmin,
		Username:     getEnv("SEED_ADMIN_USERNAME", "siteadmin"),
		Email:        email,
		PasswordHash: hash,
		Firstname:    "Site",
		Lastname:     "Admin",
		Activated:    true,
		Approved:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func seedPackages(ctx context.Context, gormDB *gorm.DB) error {
	for _, pkg := range defaultPackages {
		if err := gormDB.WithContext(ctx).Where("name = ?", pkg.Name).FirstOrCreate(&pkg).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedEvent(ctx context.Context, gormDB *gorm.DB, adminID uint) (*model.Event, error) {
	var event model.Event
	err := gormDB.WithContext(ctx).Where("event_admin = ? AND event_title = ?", adminID, "Welcome meetup").First(&event).Error
	if err == nil {
		return &event, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	start := time.Now().AddDate(0, 0, 7).Truncate(time.Hour)
	event = model.Event{
		Admin:       adminID,
		Title:       "Welcome meetup",
		Location:    "Online",
		Description: "Say hello to the community.",
		StartDate:   start,
		EndDate:     start.Add(2 * time.Hour),
	}
	if err := repository.NewEventRepository(gormDB).Create(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
