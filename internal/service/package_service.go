package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

const packageStatusTTL = 5 * time.Minute

// PackageService reports a user's subscription package status.
type PackageService interface {
	// Status never fails; any lookup problem yields an inactive status.
	Status(ctx context.Context, user *model.User) model.PackageStatus
}

type packageService struct {
	repo   repository.PackageRepository
	cache  cache.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewPackageService creates a new package service.
func NewPackageService(repo repository.PackageRepository, store cache.Store, logger *slog.Logger) PackageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &packageService{repo: repo, cache: store, logger: logger, now: time.Now}
}

func (s *packageService) cacheKey(userID uint) string {
	return fmt.Sprintf("package_status:%d", userID)
}

func (s *packageService) Status(ctx context.Context, user *model.User) model.PackageStatus {
	if user == nil || !user.Subscribed || user.PackageID == nil {
		return model.PackageStatus{}
	}

	var cached model.PackageStatus
	if s.cache != nil && s.cache.GetJSON(ctx, s.cacheKey(user.ID), &cached) {
		return cached
	}

	pkg, err := s.repo.FindByID(ctx, *user.PackageID)
	if err != nil {
		s.logger.WarnContext(ctx, "package lookup failed", "user_id", user.ID, "package_id", *user.PackageID, "error", err)
		return model.PackageStatus{}
	}

	status := model.PackageStatus{Name: pkg.Name, Active: true}
	if user.SubscriptionDate != nil {
		if expires, ok := pkg.ExpiresAt(*user.SubscriptionDate); ok && !s.now().Before(expires) {
			status.Active = false
		}
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, s.cacheKey(user.ID), status, packageStatusTTL)
	}
	return status
}
