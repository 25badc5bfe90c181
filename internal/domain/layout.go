// Canonical record layout.
//
// Records are exported in a fixed-maximum-size binary form for storage-cost
// compatibility: an 8-byte type discriminator followed by the record fields
// in declared order. Integers are little-endian, addresses are their raw 32
// bytes, strings are a 4-byte length plus bytes (within their budget), and
// optional fields are a 1-byte presence flag followed by the value when
// present.
package domain

import (
	"encoding/binary"
	"fmt"

	"lukechampine.com/blake3"
)

// Maximum encoded sizes per record, discriminator included. Sale and
// UserClaim carry no variable-length fields and always encode to exactly
// their maximum.
const (
	MerchantMaxLen  = 8 + 32 + 32 + (4 + MerchantNameMax) + 1
	DealMaxLen      = 8 + 32 + 32 + 32 + (4 + NamePrefixMax) + (4 + URIPrefixMax) + 8 + (1 + 8) + (1 + 8) + 8 + 32 + (1 + 32) + 1 + 1
	SaleLen         = 8 + 32 + 32 + 32 + 8 + 8 + 1
	UserClaimLen    = 8 + 32 + 32 + 32 + 1 + (1 + 8) + (1 + 8) + 1
	discriminatorLn = 8
)

// Discriminator returns the 8-byte type tag for a record name: the leading
// bytes of blake3("record:<name>").
func Discriminator(name string) [8]byte {
	sum := blake3.Sum256([]byte("record:" + name))
	var out [8]byte
	copy(out[:], sum[:discriminatorLn])
	return out
}

type layoutBuf struct {
	b   []byte
	err error
}

func newLayoutBuf(name string, capacity int) *layoutBuf {
	d := Discriminator(name)
	b := make([]byte, 0, capacity)
	return &layoutBuf{b: append(b, d[:]...)}
}

func (lb *layoutBuf) address(field, s string) {
	if lb.err != nil {
		return
	}
	raw, err := ParseAddress(s)
	if err != nil {
		lb.err = fmt.Errorf("%s: %w", field, err)
		return
	}
	lb.b = append(lb.b, raw[:]...)
}

func (lb *layoutBuf) str(field, s string, max int) {
	if lb.err != nil {
		return
	}
	if len(s) > max {
		lb.err = fmt.Errorf("%s: %d bytes exceeds budget of %d", field, len(s), max)
		return
	}
	lb.b = binary.LittleEndian.AppendUint32(lb.b, uint32(len(s)))
	lb.b = append(lb.b, s...)
}

func (lb *layoutBuf) u64(v uint64) {
	if lb.err != nil {
		return
	}
	lb.b = binary.LittleEndian.AppendUint64(lb.b, v)
}

func (lb *layoutBuf) i64(v int64) { lb.u64(uint64(v)) }

func (lb *layoutBuf) u8(v uint8) {
	if lb.err != nil {
		return
	}
	lb.b = append(lb.b, v)
}

func (lb *layoutBuf) boolean(v bool) {
	if v {
		lb.u8(1)
	} else {
		lb.u8(0)
	}
}

func (lb *layoutBuf) optI64(v *int64) {
	if v == nil {
		lb.u8(0)
		return
	}
	lb.u8(1)
	lb.i64(*v)
}

func (lb *layoutBuf) optAddress(field string, v *string) {
	if v == nil {
		lb.u8(0)
		return
	}
	lb.u8(1)
	lb.address(field, *v)
}

func (lb *layoutBuf) finish() ([]byte, error) {
	if lb.err != nil {
		return nil, lb.err
	}
	return lb.b, nil
}

// EncodeMerchant renders m in canonical layout. The result is at most
// MerchantMaxLen bytes.
func (m *Merchant) EncodeMerchant() ([]byte, error) {
	lb := newLayoutBuf("Merchant", MerchantMaxLen)
	lb.address("authority", m.Authority)
	lb.address("treasury", m.Treasury)
	lb.str("name", m.Name, MerchantNameMax)
	lb.u8(m.Bump)
	return lb.finish()
}

// EncodeDeal renders d in canonical layout. The result is at most DealMaxLen
// bytes.
func (d *Deal) EncodeDeal() ([]byte, error) {
	lb := newLayoutBuf("Deal", DealMaxLen)
	lb.address("merchant", d.MerchantAddress)
	lb.address("collection", d.Collection)
	lb.address("collection_mint", d.CollectionMint)
	lb.str("name_prefix", d.NamePrefix, NamePrefixMax)
	lb.str("uri_prefix", d.URIPrefix, URIPrefixMax)
	lb.u64(d.ItemsAvailable)
	lb.optI64(d.GoLiveDate)
	lb.optI64(d.EndDate)
	lb.u64(d.Price)
	lb.address("payout_wallet", d.PayoutWallet)
	lb.optAddress("allowlist_root", d.AllowlistRoot)
	lb.u8(d.Status)
	lb.u8(d.Bump)
	return lb.finish()
}

// EncodeSale renders s in canonical layout. The result is always exactly
// SaleLen bytes.
func (s *Sale) EncodeSale() ([]byte, error) {
	lb := newLayoutBuf("Sale", SaleLen)
	lb.address("deal", s.DealAddress)
	lb.address("mint", s.Mint)
	lb.address("buyer", s.Buyer)
	lb.u64(s.Price)
	lb.i64(s.Timestamp)
	lb.u8(s.Bump)
	return lb.finish()
}

// EncodeUserClaim renders c in canonical layout. The result is always exactly
// UserClaimLen bytes.
func (c *UserClaim) EncodeUserClaim() ([]byte, error) {
	lb := newLayoutBuf("UserClaim", UserClaimLen)
	lb.address("user", c.User)
	lb.address("collection", c.Collection)
	lb.address("mint", c.Mint)
	lb.boolean(c.IsStaked)
	lb.optI64(c.StakedAt)
	lb.optI64(c.UnstakedAt)
	lb.u8(c.Bump)
	return lb.finish()
}
