package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

func seedMerchant(t *testing.T, db *gorm.DB, authority string) *domain.Merchant {
	t.Helper()
	m := &domain.Merchant{
		Address:   domain.MerchantAddress(authority),
		Authority: authority,
		Treasury:  domain.DeriveAddress("test", "treasury"),
		Name:      "Acme",
	}
	m.Bump = domain.Bump(m.Address)
	if err := CreateMerchant(context.Background(), db, m); err != nil {
		t.Fatalf("seed merchant: %v", err)
	}
	return m
}

func seedDeal(t *testing.T, db *gorm.DB, m *domain.Merchant, collection string) *domain.Deal {
	t.Helper()
	d := &domain.Deal{
		Address:         domain.DealAddress(m.Address, collection),
		MerchantAddress: m.Address,
		Collection:      collection,
		CollectionMint:  domain.DeriveAddress("test", "cmint"),
		NamePrefix:      "Sale",
		URIPrefix:       "ipfs://x",
		ItemsAvailable:  100,
		Price:           1_000_000,
		PayoutWallet:    domain.DeriveAddress("test", "payout"),
		Status:          domain.DealStatusCreated,
	}
	d.Bump = domain.Bump(d.Address)
	if err := CreateDeal(context.Background(), db, d); err != nil {
		t.Fatalf("seed deal: %v", err)
	}
	return d
}

func TestMerchantRepo_CreateGetDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	authority := domain.DeriveAddress("test", "auth-1")

	m := seedMerchant(t, db, authority)

	got, err := GetMerchant(ctx, db, m.Address)
	if err != nil {
		t.Fatalf("GetMerchant: %v", err)
	}
	if got.Authority != authority || got.Name != "Acme" {
		t.Fatalf("unexpected merchant: %+v", got)
	}

	byAuth, err := GetMerchantByAuthority(ctx, db, authority)
	if err != nil || byAuth.Address != m.Address {
		t.Fatalf("GetMerchantByAuthority: %+v, %v", byAuth, err)
	}

	// Same derived address again: the primary key is the uniqueness check.
	dup := *m
	if err := CreateMerchant(ctx, db, &dup); err == nil {
		t.Fatal("duplicate merchant accepted")
	}

	if _, err := GetMerchant(ctx, db, domain.MerchantAddress("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMerchantRepo_ListPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for _, a := range []string{"a", "b", "c"} {
		seedMerchant(t, db, domain.DeriveAddress("test", a))
	}

	total, err := CountMerchants(ctx, db)
	if err != nil || total != 3 {
		t.Fatalf("CountMerchants = %d, %v", total, err)
	}
	page, err := ListMerchantsPage(ctx, db, 0, 2)
	if err != nil || len(page) != 2 {
		t.Fatalf("ListMerchantsPage = %d rows, %v", len(page), err)
	}
}

func TestDealRepo_CreateUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMerchant(t, db, domain.DeriveAddress("test", "auth-2"))
	d := seedDeal(t, db, m, domain.DeriveAddress("test", "coll-1"))

	// Duplicate (merchant, collection) pair must be rejected.
	dup := *d
	if err := CreateDeal(ctx, db, &dup); err == nil {
		t.Fatal("duplicate deal accepted")
	}

	if err := UpdateDealStatus(ctx, db, d.Address, 200); err != nil {
		t.Fatalf("UpdateDealStatus: %v", err)
	}
	got, err := GetDeal(ctx, db, d.Address)
	if err != nil {
		t.Fatalf("GetDeal: %v", err)
	}
	if got.Status != 200 {
		t.Fatalf("status = %d, want 200", got.Status)
	}

	if err := UpdateDealStatus(ctx, db, domain.DealAddress(m.Address, "nope"), 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	deals, err := ListDealsByMerchant(ctx, db, m.Address)
	if err != nil || len(deals) != 1 {
		t.Fatalf("ListDealsByMerchant = %d rows, %v", len(deals), err)
	}
}

func TestSaleRepo_AppendOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMerchant(t, db, domain.DeriveAddress("test", "auth-3"))
	d := seedDeal(t, db, m, domain.DeriveAddress("test", "coll-2"))

	mint := domain.DeriveAddress("test", "mint-1")
	s := &domain.Sale{
		Address:     domain.SaleAddress(d.Address, mint),
		DealAddress: d.Address,
		Mint:        mint,
		Buyer:       domain.DeriveAddress("test", "buyer"),
		Price:       1_000_000,
		Timestamp:   1_700_000_000,
	}
	s.Bump = domain.Bump(s.Address)
	if err := CreateSale(ctx, db, s); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	dup := *s
	if err := CreateSale(ctx, db, &dup); err == nil {
		t.Fatal("replayed sale accepted")
	}

	total, err := CountSalesByDeal(ctx, db, d.Address)
	if err != nil || total != 1 {
		t.Fatalf("CountSalesByDeal = %d, %v", total, err)
	}
	page, err := ListSalesByDealPage(ctx, db, d.Address, 0, 10)
	if err != nil || len(page) != 1 {
		t.Fatalf("ListSalesByDealPage = %d rows, %v", len(page), err)
	}
	if page[0].Mint != mint {
		t.Fatalf("unexpected sale row: %+v", page[0])
	}
}

func TestClaimRepo_StakeLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := domain.DeriveAddress("test", "user-1")
	coll := domain.DeriveAddress("test", "coll-3")
	stakedAt := int64(1_700_000_000)
	c := &domain.UserClaim{
		Address:    domain.UserClaimAddress(user, coll),
		User:       user,
		Collection: coll,
		Mint:       domain.DeriveAddress("test", "mint-2"),
		IsStaked:   true,
		StakedAt:   &stakedAt,
	}
	c.Bump = domain.Bump(c.Address)
	if err := CreateClaim(ctx, db, c); err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}

	dup := *c
	if err := CreateClaim(ctx, db, &dup); err == nil {
		t.Fatal("duplicate claim accepted")
	}

	unstakedAt := stakedAt + 90
	if err := UpdateClaimStake(ctx, db, c.Address, false, &unstakedAt); err != nil {
		t.Fatalf("UpdateClaimStake: %v", err)
	}

	got, err := GetClaim(ctx, db, c.Address)
	if err != nil {
		t.Fatalf("GetClaim: %v", err)
	}
	if got.IsStaked {
		t.Fatal("claim still staked after update")
	}
	if got.StakedAt == nil || *got.StakedAt != stakedAt {
		t.Fatalf("staked_at not retained: %v", got.StakedAt)
	}
	if got.UnstakedAt == nil || *got.UnstakedAt != unstakedAt {
		t.Fatalf("unstaked_at not set: %v", got.UnstakedAt)
	}

	if err := UpdateClaimStake(ctx, db, domain.UserClaimAddress(user, "other"), false, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
