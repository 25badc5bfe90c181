// Package services defines the business logic for merchants, deals, sales,
// and stake claims. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNameTooLong is returned when a merchant name or deal name prefix
	// exceeds its byte budget.
	ErrNameTooLong = errors.New("name exceeds byte budget")

	// ErrURITooLong is returned when a deal URI prefix exceeds its byte budget.
	ErrURITooLong = errors.New("uri prefix exceeds byte budget")

	// ErrNotStaked is returned when an unstake targets a claim whose staked
	// flag is already false.
	ErrNotStaked = errors.New("item is not staked")

	// ErrAlreadyStaked is reserved: the original error taxonomy names it but
	// no operation triggers it, because a repeated stake fails on the
	// existing claim row (ErrClaimExists) instead.
	ErrAlreadyStaked = errors.New("item is already staked")

	// ErrUnauthorized indicates the calling identity does not equal the
	// stored authority of the targeted record.
	ErrUnauthorized = errors.New("caller is not the record authority")

	// ErrMerchantNotFound indicates the referenced merchant does not exist.
	ErrMerchantNotFound = errors.New("merchant not found")

	// ErrDealNotFound indicates the referenced deal does not exist.
	ErrDealNotFound = errors.New("deal not found")

	// ErrClaimNotFound indicates no claim exists at the derived address, or
	// its stored derivation bump does not match.
	ErrClaimNotFound = errors.New("claim not found")

	// ErrMerchantExists indicates a merchant is already registered for the
	// controlling authority.
	ErrMerchantExists = errors.New("merchant already registered")

	// ErrDealExists indicates a deal already exists for the
	// (merchant, collection) pair.
	ErrDealExists = errors.New("deal already exists")

	// ErrSaleExists indicates a sale was already recorded for the
	// (deal, mint) pair.
	ErrSaleExists = errors.New("sale already recorded")

	// ErrClaimExists indicates a claim already exists for the
	// (user, collection) pair.
	ErrClaimExists = errors.New("claim already exists")
)

// authorize is the single authorization predicate of the ledger: an
// operation's effect is permitted only when the invoking identity equals the
// stored authority identity.
func authorize(stored, caller string) error {
	if stored != caller {
		return ErrUnauthorized
	}
	return nil
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
