// Package services – RecordService
//
// This file implements the RecordService, which renders any record in its
// canonical fixed-maximum-size layout (8-byte discriminator plus fields; see
// internal/domain/layout.go). Addresses are unique across record types, so a
// lookup probes each table in turn.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/repo"
)

// ErrRecordNotFound indicates no record of any type exists at the address.
var ErrRecordNotFound = errors.New("no record at address")

// RecordService resolves record addresses to their canonical byte layout.
type RecordService struct {
	// DB is the GORM handle used for lookups.
	DB *gorm.DB
}

// NewRecordService constructs a RecordService.
func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{DB: db}
}

// Canonical returns the record kind ("merchant", "deal", "sale",
// "user_claim") and its canonical layout bytes for the record at address.
func (s *RecordService) Canonical(ctx context.Context, address string) (string, []byte, error) {
	if m, err := repo.GetMerchant(ctx, s.DB, address); err == nil {
		raw, err := m.EncodeMerchant()
		return "merchant", raw, err
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	if d, err := repo.GetDeal(ctx, s.DB, address); err == nil {
		raw, err := d.EncodeDeal()
		return "deal", raw, err
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	if sale, err := repo.GetSale(ctx, s.DB, address); err == nil {
		raw, err := sale.EncodeSale()
		return "sale", raw, err
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	if c, err := repo.GetClaim(ctx, s.DB, address); err == nil {
		raw, err := c.EncodeUserClaim()
		return "user_claim", raw, err
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	return "", nil, ErrRecordNotFound
}
