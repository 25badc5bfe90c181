// Package services – SaleService
//
// This file implements the SaleService, which records immutable sale events
// against existing deals. Any authenticated buyer may record a sale for any
// existing (deal, mint) pair; there is no authorization link to the deal's
// merchant. The derived address makes a replayed recording collide, which is
// the idempotence mechanism for sales.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/repo"
)

// SaleService provides sale recording and per-deal reads.
type SaleService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Now supplies the trusted clock; defaults to time.Now when nil.
	Now func() time.Time
}

// NewSaleService constructs a SaleService using the wall clock.
func NewSaleService(db *gorm.DB) *SaleService {
	return &SaleService{DB: db}
}

func (s *SaleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Record creates the sale of one item (mint) under the deal at dealAddress.
//
// Semantics and validation:
//   - The referenced deal must exist; otherwise ErrDealNotFound. The deal is
//     read-only here and its merchant is not consulted.
//   - One sale per (deal, mint): a replay collides on the derived address and
//     yields ErrSaleExists with the first record unchanged.
//   - Timestamp is the clock value at the moment of the successful call.
//
// Concurrency & atomicity: the existence check and the insert run inside a
// transaction.
func (s *SaleService) Record(ctx context.Context, buyer, dealAddress, mint string, price uint64) (*domain.Sale, error) {
	sale := &domain.Sale{
		Address:     domain.SaleAddress(dealAddress, mint),
		DealAddress: dealAddress,
		Mint:        mint,
		Buyer:       buyer,
		Price:       price,
	}
	sale.Bump = domain.Bump(sale.Address)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetDeal(ctx, tx, dealAddress); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}
		sale.Timestamp = s.now().Unix()
		if err := repo.CreateSale(ctx, tx, sale); err != nil {
			if isDuplicate(err) {
				return ErrSaleExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ListPage returns a page of sales recorded under the deal at dealAddress and
// the total count. It applies defaults for invalid page/pageSize.
func (s *SaleService) ListPage(ctx context.Context, dealAddress string, page, pageSize int) ([]domain.Sale, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetDeal(ctx, s.DB, dealAddress); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrDealNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountSalesByDeal(ctx, s.DB, dealAddress)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Sale{}, 0, nil
	}

	items, err := repo.ListSalesByDealPage(ctx, s.DB, dealAddress, offset, pageSize)
	return items, total, err
}
