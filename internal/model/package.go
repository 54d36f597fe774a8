package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagePeriod is the billing unit of a package.
type PackagePeriod string

const (
	PeriodDay   PackagePeriod = "day"
	PeriodWeek  PackagePeriod = "week"
	PeriodMonth PackagePeriod = "month"
	PeriodYear  PackagePeriod = "year"
	PeriodLife  PackagePeriod = "life"
)

// Package is a paid subscription plan.
type Package struct {
	ID        uint            `json:"package_id" gorm:"column:package_id;primaryKey"`
	Name      string          `json:"name" gorm:"column:name;size:255;not null"`
	Price     decimal.Decimal `json:"price" gorm:"column:price;type:decimal(20,2);not null;default:0"`
	PeriodNum int             `json:"period_num" gorm:"column:period_num;not null;default:1"`
	Period    PackagePeriod   `json:"period" gorm:"column:period;type:varchar(10);not null;default:'month'"`
}

// TableName overrides the default table name.
func (Package) TableName() string {
	return "packages"
}

// ExpiresAt returns when a subscription started at since ends.
// The second result is false for lifetime packages.
func (p *Package) ExpiresAt(since time.Time) (time.Time, bool) {
	n := p.PeriodNum
	if n <= 0 {
		n = 1
	}
	switch p.Period {
	case PeriodDay:
		return since.AddDate(0, 0, n), true
	case PeriodWeek:
		return since.AddDate(0, 0, 7*n), true
	case PeriodMonth:
		return since.AddDate(0, n, 0), true
	case PeriodYear:
		return since.AddDate(n, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// PackageStatus is the package summary attached to a signed in user.
type PackageStatus struct {
	Active bool   `json:"active"`
	Name   string `json:"name,omitempty"`
}
