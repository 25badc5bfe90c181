// Package repo implements the data persistence layer for the ledger records,
// backed by GORM. This file provides repository functions for the Merchant
// record.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Error semantics:
//   - When a merchant is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Duplicate creation (same derived address or authority) relies on the
//     primary key and unique index; the raw DB error is propagated for the
//     service layer to translate.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateMerchant inserts a merchant row at its derived address. The insert is
// the uniqueness check: a second registration for the same authority collides
// on the primary key and returns the raw DB error.
func CreateMerchant(ctx context.Context, db *gorm.DB, m *domain.Merchant) error {
	return db.WithContext(ctx).Create(m).Error
}

// GetMerchant fetches a merchant by its record address, or ErrNotFound.
func GetMerchant(ctx context.Context, db *gorm.DB, address string) (*domain.Merchant, error) {
	var m domain.Merchant
	if err := db.WithContext(ctx).Where("address = ?", address).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMerchantByAuthority fetches the merchant controlled by the given
// authority, or ErrNotFound.
func GetMerchantByAuthority(ctx context.Context, db *gorm.DB, authority string) (*domain.Merchant, error) {
	var m domain.Merchant
	if err := db.WithContext(ctx).Where("authority = ?", authority).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMerchants returns the total number of registered merchants.
func CountMerchants(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Merchant{}).Count(&total).Error
	return total, err
}

// ListMerchantsPage returns a page of merchants ordered by registration time
// descending. The caller computes offset and limit.
func ListMerchantsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Merchant, error) {
	var out []domain.Merchant
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
