// Package repo implements the data persistence layer for the ledger records,
// backed by GORM. This file provides repository functions for the UserClaim
// record.
//
// Only the staked flag and the two stake timestamps ever change after
// creation; UpdateClaimStake is the single mutation path.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

// CreateClaim inserts a claim row at its derived address. A second stake for
// the same (user, collection) pair collides on the primary key.
func CreateClaim(ctx context.Context, db *gorm.DB, c *domain.UserClaim) error {
	return db.WithContext(ctx).Create(c).Error
}

// GetClaim fetches a claim by its record address, or ErrNotFound.
func GetClaim(ctx context.Context, db *gorm.DB, address string) (*domain.UserClaim, error) {
	var c domain.UserClaim
	if err := db.WithContext(ctx).Where("address = ?", address).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateClaimStake updates the staked flag and the unstake timestamp of the
// claim at address. StakedAt is deliberately left untouched: the original
// stake time is retained across an unstake. Returns ErrNotFound when no row
// was touched.
func UpdateClaimStake(ctx context.Context, db *gorm.DB, address string, staked bool, unstakedAt *int64) error {
	res := db.WithContext(ctx).
		Model(&domain.UserClaim{}).
		Where("address = ?", address).
		Updates(map[string]any{
			"is_staked":   staked,
			"unstaked_at": unstakedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
