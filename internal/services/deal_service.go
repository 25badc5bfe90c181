// Package services – DealService
//
// This file implements the DealService, which manages deal creation and the
// open status byte. Creation is authorized against the owning merchant's
// stored authority; the derived (merchant, collection) address makes repeated
// creation collide. Status updates overwrite the byte unconditionally after
// the authority equality check; the status space beyond the creation value is
// caller-defined and no transition table is enforced.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/repo"
)

// CreateDealParams bundles the caller-supplied fields of a new deal.
// Collection and CollectionMint are opaque references into the external
// minting system and are not validated against any registry.
type CreateDealParams struct {
	MerchantAddress string
	Collection      string
	CollectionMint  string
	NamePrefix      string
	URIPrefix       string
	ItemsAvailable  uint64
	GoLiveDate      *int64
	EndDate         *int64
	Price           uint64
	PayoutWallet    string
	AllowlistRoot   *string
}

// DealService provides deal creation, status updates, and reads.
type DealService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewDealService constructs a DealService.
func NewDealService(db *gorm.DB) *DealService {
	return &DealService{DB: db}
}

// Create creates a deal owned by the referenced merchant.
//
// Semantics and validation:
//   - caller must equal the merchant's stored authority; otherwise
//     ErrUnauthorized.
//   - NamePrefix is capped at domain.NamePrefixMax bytes (ErrNameTooLong),
//     URIPrefix at domain.URIPrefixMax bytes (ErrURITooLong).
//   - One deal per (merchant, collection): a repeated creation collides on
//     the derived address and yields ErrDealExists, first deal unchanged.
//   - Status is fixed to domain.DealStatusCreated.
func (s *DealService) Create(ctx context.Context, caller string, p CreateDealParams) (*domain.Deal, error) {
	if len(p.NamePrefix) > domain.NamePrefixMax {
		return nil, ErrNameTooLong
	}
	if len(p.URIPrefix) > domain.URIPrefixMax {
		return nil, ErrURITooLong
	}

	m, err := repo.GetMerchant(ctx, s.DB, p.MerchantAddress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}
	if err := authorize(m.Authority, caller); err != nil {
		return nil, err
	}

	d := &domain.Deal{
		Address:         domain.DealAddress(m.Address, p.Collection),
		MerchantAddress: m.Address,
		Collection:      p.Collection,
		CollectionMint:  p.CollectionMint,
		NamePrefix:      p.NamePrefix,
		URIPrefix:       p.URIPrefix,
		ItemsAvailable:  p.ItemsAvailable,
		GoLiveDate:      p.GoLiveDate,
		EndDate:         p.EndDate,
		Price:           p.Price,
		PayoutWallet:    p.PayoutWallet,
		AllowlistRoot:   p.AllowlistRoot,
		Status:          domain.DealStatusCreated,
	}
	d.Bump = domain.Bump(d.Address)

	if err := repo.CreateDeal(ctx, s.DB, d); err != nil {
		if isDuplicate(err) {
			return nil, ErrDealExists
		}
		return nil, err
	}
	return d, nil
}

// UpdateStatus overwrites the status byte of the deal at dealAddress.
//
// Authorization is an explicit equality check: the caller must equal the
// owning merchant's stored authority. Any status value 0-255 is accepted;
// on authorization failure the deal is untouched.
//
// Concurrency & atomicity: the check and the write run inside a transaction
// so the authority read and the status overwrite are atomic.
func (s *DealService) UpdateStatus(ctx context.Context, caller, dealAddress string, status uint8) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := repo.GetDeal(ctx, tx, dealAddress)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}
		m, err := repo.GetMerchant(ctx, tx, d.MerchantAddress)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMerchantNotFound
			}
			return err
		}
		if err := authorize(m.Authority, caller); err != nil {
			return err
		}
		return repo.UpdateDealStatus(ctx, tx, dealAddress, status)
	})
}

// Get fetches a deal by record address.
func (s *DealService) Get(ctx context.Context, address string) (*domain.Deal, error) {
	d, err := repo.GetDeal(ctx, s.DB, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByMerchant returns all deals owned by the merchant at merchantAddress.
func (s *DealService) ListByMerchant(ctx context.Context, merchantAddress string) ([]domain.Deal, error) {
	if _, err := repo.GetMerchant(ctx, s.DB, merchantAddress); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}
	return repo.ListDealsByMerchant(ctx, s.DB, merchantAddress)
}
