// Package services – MerchantService
//
// This file implements the MerchantService, which manages merchant
// registration and reads. Registration derives the record address from the
// controlling authority, enforces the name byte budget, and relies on the
// derived-address primary key for uniqueness: a second registration for the
// same authority collides and is reported as ErrMerchantExists.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/repo"
)

// MerchantService provides merchant registration and lookup.
type MerchantService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewMerchantService constructs a MerchantService.
func NewMerchantService(db *gorm.DB) *MerchantService {
	return &MerchantService{DB: db}
}

// Register creates the merchant record controlled by authority.
//
// Semantics and validation:
//   - name must be at most domain.MerchantNameMax bytes; otherwise
//     ErrNameTooLong.
//   - Exactly one merchant may exist per authority. The record address is a
//     pure function of the authority, so a repeated registration collides on
//     the primary key and yields ErrMerchantExists with the first record
//     unchanged.
//
// Co-signing by the authority is enforced upstream (the caller identity
// passed here is the authenticated caller).
func (s *MerchantService) Register(ctx context.Context, authority, treasury, name string) (*domain.Merchant, error) {
	if len(name) > domain.MerchantNameMax {
		return nil, ErrNameTooLong
	}

	m := &domain.Merchant{
		Address:   domain.MerchantAddress(authority),
		Authority: authority,
		Treasury:  treasury,
		Name:      name,
	}
	m.Bump = domain.Bump(m.Address)

	if err := repo.CreateMerchant(ctx, s.DB, m); err != nil {
		if isDuplicate(err) {
			return nil, ErrMerchantExists
		}
		return nil, err
	}
	return m, nil
}

// Get fetches a merchant by record address.
func (s *MerchantService) Get(ctx context.Context, address string) (*domain.Merchant, error) {
	m, err := repo.GetMerchant(ctx, s.DB, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListPage returns a page of merchants and the total count. It applies
// defaults for invalid page/pageSize.
func (s *MerchantService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Merchant, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountMerchants(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Merchant{}, 0, nil
	}

	items, err := repo.ListMerchantsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
