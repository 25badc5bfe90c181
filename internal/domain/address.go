// Record addressing.
//
// Every record lives at an address derived deterministically from a fixed
// seed label and the identifying fields of its key tuple, so lookup and
// existence checks are pure functions of those fields. Derivation collision
// on insert is the uniqueness mechanism for all four record types.
package domain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

// Seed labels, one per record type.
const (
	SeedMerchant  = "merchant"
	SeedDeal      = "deal"
	SeedSale      = "sale"
	SeedUserClaim = "user_claim"
)

// AddressLen is the length of a hex-encoded record address.
const AddressLen = 64

// DeriveAddress computes the record address for a seed label and key parts.
// Each part is length-prefixed before hashing so that adjacent parts cannot
// be confused ("ab","c" vs "a","bc"). The result is the lowercase hex
// encoding of a blake3-256 digest.
func DeriveAddress(seed string, parts ...string) string {
	h := blake3.New(32, nil)
	writeLenPrefixed(h, seed)
	for _, p := range parts {
		writeLenPrefixed(h, p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeLenPrefixed(h *blake3.Hasher, s string) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

// MerchantAddress derives the address of the merchant controlled by authority.
func MerchantAddress(authority string) string {
	return DeriveAddress(SeedMerchant, authority)
}

// DealAddress derives the address of the deal a merchant runs against an
// external collection.
func DealAddress(merchantAddress, collection string) string {
	return DeriveAddress(SeedDeal, merchantAddress, collection)
}

// SaleAddress derives the address of the sale of one item under a deal.
func SaleAddress(dealAddress, mint string) string {
	return DeriveAddress(SeedSale, dealAddress, mint)
}

// UserClaimAddress derives the address of a user's claim for a collection.
func UserClaimAddress(user, collection string) string {
	return DeriveAddress(SeedUserClaim, user, collection)
}

// Bump returns the derivation check byte of an address: the last byte of the
// decoded digest. It is stored on every record and re-verified when a record
// is located through its derived address.
func Bump(address string) uint8 {
	raw, err := hex.DecodeString(address)
	if err != nil || len(raw) == 0 {
		return 0
	}
	return raw[len(raw)-1]
}

// ParseAddress validates that s is a well-formed record or identity address
// (64 lowercase hex characters) and returns its raw 32 bytes.
func ParseAddress(s string) ([32]byte, error) {
	var out [32]byte
	if len(s) != AddressLen {
		return out, fmt.Errorf("address must be %d hex characters, got %d", AddressLen, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("address is not valid hex: %w", err)
	}
	copy(out[:], raw)
	return out, nil
}
