package repository

import (
	"context"

	"gorm.io/gorm"

	"socialnet/internal/model"
)

// PackageRepository defines package persistence operations.
type PackageRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Package, error)
}

type packageRepository struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository.
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

// FindByID finds a package by ID.
func (r *packageRepository) FindByID(ctx context.Context, id uint) (*model.Package, error) {
	var pkg model.Package
	if err := r.db.WithContext(ctx).Where("package_id = ?", id).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}
