// Package repo implements the data persistence layer for the ledger records,
// backed by GORM. This file provides repository functions for the Deal record.
//
// Error semantics match merchant_repo.go: missing rows surface as
// gorm.ErrRecordNotFound, duplicate creation surfaces as the raw DB
// unique-violation error for the service layer to translate.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

// CreateDeal inserts a deal row at its derived address. A second creation for
// the same (merchant, collection) pair collides on the primary key.
func CreateDeal(ctx context.Context, db *gorm.DB, d *domain.Deal) error {
	return db.WithContext(ctx).Create(d).Error
}

// GetDeal fetches a deal by its record address, or ErrNotFound.
func GetDeal(ctx context.Context, db *gorm.DB, address string) (*domain.Deal, error) {
	var d domain.Deal
	if err := db.WithContext(ctx).Where("address = ?", address).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDealsByMerchant returns all deals owned by a merchant, newest first.
func ListDealsByMerchant(ctx context.Context, db *gorm.DB, merchantAddress string) ([]domain.Deal, error) {
	var out []domain.Deal
	err := db.WithContext(ctx).
		Where("merchant_address = ?", merchantAddress).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// UpdateDealStatus overwrites the status byte of the deal at address.
// Any value 0-255 is accepted; the caller performs authorization.
// Returns ErrNotFound when no row was touched.
func UpdateDealStatus(ctx context.Context, db *gorm.DB, address string, status uint8) error {
	res := db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("address = ?", address).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
