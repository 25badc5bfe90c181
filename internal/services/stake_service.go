// Package services – StakeService
//
// This file implements the StakeService, which governs the stake lifecycle of
// user claims. A claim is created staked; unstaking clears the flag and
// records the unstake time while retaining the original stake time. The
// derived (user, collection) address makes a second stake collide with the
// existing claim, so no operation ever moves a claim back to staked.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/repo"
)

// StakeService provides the stake and unstake operations on user claims.
type StakeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Now supplies the trusted clock; defaults to time.Now when nil.
	Now func() time.Time
}

// NewStakeService constructs a StakeService using the wall clock.
func NewStakeService(db *gorm.DB) *StakeService {
	return &StakeService{DB: db}
}

func (s *StakeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Stake creates a staked claim for user on the given collection and mint.
//
// Collection and mint are opaque references, accepted without validation
// against any external registry; the caller is trusted to supply real
// identifiers. The new claim has IsStaked set, StakedAt at the clock value of
// the call, and no UnstakedAt. A claim already existing for
// (user, collection) — staked or not — yields ErrClaimExists.
func (s *StakeService) Stake(ctx context.Context, user, collection, mint string) (*domain.UserClaim, error) {
	stakedAt := s.now().Unix()
	c := &domain.UserClaim{
		Address:    domain.UserClaimAddress(user, collection),
		User:       user,
		Collection: collection,
		Mint:       mint,
		IsStaked:   true,
		StakedAt:   &stakedAt,
	}
	c.Bump = domain.Bump(c.Address)

	if err := repo.CreateClaim(ctx, s.DB, c); err != nil {
		if isDuplicate(err) {
			return nil, ErrClaimExists
		}
		return nil, err
	}
	return c, nil
}

// Unstake clears the staked flag of the caller's claim for collection.
//
// Semantics and validation:
//   - The claim is located at the address derived from (user, collection);
//     a missing row or a stored bump that does not match the derivation
//     yields ErrClaimNotFound.
//   - The stored user must equal the caller; otherwise ErrUnauthorized.
//   - A claim whose staked flag is already false yields ErrNotStaked,
//     distinct from the missing-record case.
//   - On success IsStaked is cleared and UnstakedAt set to the clock value;
//     StakedAt is left untouched.
//
// Concurrency & atomicity: the lookup, checks, and update run inside a
// transaction.
func (s *StakeService) Unstake(ctx context.Context, user, collection string) (*domain.UserClaim, error) {
	address := domain.UserClaimAddress(user, collection)

	var out *domain.UserClaim
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetClaim(ctx, tx, address)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimNotFound
			}
			return err
		}
		if c.Bump != domain.Bump(address) {
			return ErrClaimNotFound
		}
		if err := authorize(c.User, user); err != nil {
			return err
		}
		if !c.IsStaked {
			return ErrNotStaked
		}

		unstakedAt := s.now().Unix()
		if err := repo.UpdateClaimStake(ctx, tx, address, false, &unstakedAt); err != nil {
			return err
		}
		c.IsStaked = false
		c.UnstakedAt = &unstakedAt
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches the caller's claim for collection, or ErrClaimNotFound.
func (s *StakeService) Get(ctx context.Context, user, collection string) (*domain.UserClaim, error) {
	c, err := repo.GetClaim(ctx, s.DB, domain.UserClaimAddress(user, collection))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return c, nil
}
