// Package domain defines the persisted record types of the promotion ledger:
// merchants, deals, sales, and user claims. These types are mapped with GORM
// and form the authoritative state of the application; every mutation
// elsewhere in the codebase ultimately lands in one of these four tables.
package domain

import "time"

// Byte budgets for validated text fields. Lengths are enforced in the service
// layer at validation time, not by the storage schema.
const (
	// MerchantNameMax caps a merchant display name, in bytes.
	MerchantNameMax = 64
	// NamePrefixMax caps a deal's item name prefix, in bytes.
	NamePrefixMax = 64
	// URIPrefixMax caps a deal's metadata URI prefix, in bytes.
	URIPrefixMax = 128
)

// DealStatusCreated is the status byte assigned to every deal at creation.
// The remaining status space (0-255) is caller-defined: UpdateStatus accepts
// any byte and no transition table is enforced.
const DealStatusCreated uint8 = 1

// Merchant represents a registered merchant identity. Exactly one merchant
// exists per controlling authority; the record address is a pure function of
// that authority (see MerchantAddress).
//
// Fields:
//   - Address: derived record address, primary key (char(64) hex).
//   - Authority: controlling identity permitted to mutate merchant-owned state.
//   - Treasury: address receiving merchant funds; informational here.
//   - Name: display name, at most MerchantNameMax bytes.
//   - Bump: derivation check byte (last byte of the derived address).
type Merchant struct {
	Address   string    `json:"address"   gorm:"type:char(64);primaryKey"`
	Authority string    `json:"authority" gorm:"type:char(64);not null;uniqueIndex:ux_merchant_authority"`
	Treasury  string    `json:"treasury"  gorm:"type:char(64);not null"`
	Name      string    `json:"name"      gorm:"type:varchar(64);not null"`
	Bump      uint8     `json:"bump"      gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Merchant.
func (Merchant) TableName() string { return "merchants" }

// Deal represents a time-bounded promotion a merchant runs against an
// external item collection. One deal exists per (merchant, collection) pair;
// the record address is derived from exactly that pair.
//
// Collection and CollectionMint are opaque references into an external
// minting system and are accepted untrusted (documented trust boundary).
// Timestamps are unix seconds to match the canonical record layout.
type Deal struct {
	Address         string  `json:"address"          gorm:"type:char(64);primaryKey"`
	MerchantAddress string  `json:"merchant_address" gorm:"type:char(64);not null;uniqueIndex:ux_deal_merchant_collection,priority:1"`
	Collection      string  `json:"collection"       gorm:"type:char(64);not null;uniqueIndex:ux_deal_merchant_collection,priority:2"`
	CollectionMint  string  `json:"collection_mint"  gorm:"type:char(64);not null"`
	NamePrefix      string  `json:"name_prefix"      gorm:"type:varchar(64);not null"`
	URIPrefix       string  `json:"uri_prefix"       gorm:"type:varchar(128);not null"`
	ItemsAvailable  uint64  `json:"items_available"  gorm:"not null"`
	GoLiveDate      *int64  `json:"go_live_date,omitempty"`
	EndDate         *int64  `json:"end_date,omitempty"`
	Price           uint64  `json:"price"            gorm:"not null"`
	PayoutWallet    string  `json:"payout_wallet"    gorm:"type:char(64);not null"`
	AllowlistRoot   *string `json:"allowlist_root,omitempty" gorm:"type:char(64)"`
	Status          uint8   `json:"status"           gorm:"not null"`
	Bump            uint8   `json:"bump"             gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// MerchantRecord is the owning merchant. Deals cannot outlive their
	// merchant row.
	MerchantRecord Merchant `json:"-" gorm:"foreignKey:MerchantAddress;references:Address;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Deal.
func (Deal) TableName() string { return "deals" }

// Sale is an append-only event recording a purchase of one item under a deal.
// One sale exists per (deal, mint) pair and the record is immutable once
// created. Timestamp is taken from the trusted clock at execution time.
type Sale struct {
	Address     string `json:"address"      gorm:"type:char(64);primaryKey"`
	DealAddress string `json:"deal_address" gorm:"type:char(64);not null;uniqueIndex:ux_sale_deal_mint,priority:1"`
	Mint        string `json:"mint"         gorm:"type:char(64);not null;uniqueIndex:ux_sale_deal_mint,priority:2"`
	Buyer       string `json:"buyer"        gorm:"type:char(64);not null;index"`
	Price       uint64 `json:"price"        gorm:"not null"`
	Timestamp   int64  `json:"timestamp"    gorm:"not null"`
	Bump        uint8  `json:"bump"         gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	// DealRecord is the referenced deal. Sales require an existing deal but
	// carry no authorization link to its merchant.
	DealRecord Deal `json:"-" gorm:"foreignKey:DealAddress;references:Address;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Sale.
func (Sale) TableName() string { return "sales" }

// UserClaim tracks the stake lifecycle of an item a user holds against an
// external collection. One claim exists per (user, collection) pair.
//
// State machine: creation sets IsStaked with StakedAt; unstaking clears
// IsStaked and sets UnstakedAt while StakedAt is retained. No operation moves
// a claim back to staked; a second stake attempt fails on the existing row.
type UserClaim struct {
	Address    string `json:"address"    gorm:"type:char(64);primaryKey"`
	User       string `json:"user"       gorm:"type:char(64);not null;uniqueIndex:ux_claim_user_collection,priority:1"`
	Collection string `json:"collection" gorm:"type:char(64);not null;uniqueIndex:ux_claim_user_collection,priority:2"`
	Mint       string `json:"mint"       gorm:"type:char(64);not null"`
	IsStaked   bool   `json:"is_staked"  gorm:"not null"`
	StakedAt   *int64 `json:"staked_at,omitempty"`
	UnstakedAt *int64 `json:"unstaked_at,omitempty"`
	Bump       uint8  `json:"bump"       gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserClaim.
func (UserClaim) TableName() string { return "user_claims" }
