// Package repo implements the data persistence layer for the ledger records,
// backed by GORM. This file provides repository functions for the Sale record.
//
// Sales are append-only: there is no update function by design. Replayed
// recordings collide on the (deal, mint) derived address and surface as the
// raw DB unique-violation error.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

// CreateSale inserts an immutable sale row at its derived address.
func CreateSale(ctx context.Context, db *gorm.DB, s *domain.Sale) error {
	return db.WithContext(ctx).Create(s).Error
}

// GetSale fetches a sale by its record address, or ErrNotFound.
func GetSale(ctx context.Context, db *gorm.DB, address string) (*domain.Sale, error) {
	var s domain.Sale
	if err := db.WithContext(ctx).Where("address = ?", address).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSalesByDeal returns the number of recorded sales under a deal.
func CountSalesByDeal(ctx context.Context, db *gorm.DB, dealAddress string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Sale{}).
		Where("deal_address = ?", dealAddress).
		Count(&total).Error
	return total, err
}

// ListSalesByDealPage returns a page of sales under a deal, newest first by
// recorded timestamp.
func ListSalesByDealPage(ctx context.Context, db *gorm.DB, dealAddress string, offset, limit int) ([]domain.Sale, error) {
	var out []domain.Sale
	err := db.WithContext(ctx).
		Where("deal_address = ?", dealAddress).
		Order("timestamp desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
