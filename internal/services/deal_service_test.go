package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

func registerMerchant(t *testing.T, db *gorm.DB, label string) (authority string, m *domain.Merchant) {
	t.Helper()
	authority = ident(label)
	m, err := NewMerchantService(db).Register(context.Background(), authority, ident("treasury"), "Acme")
	if err != nil {
		t.Fatalf("register merchant: %v", err)
	}
	return authority, m
}

func dealParams(m *domain.Merchant, collection string) CreateDealParams {
	return CreateDealParams{
		MerchantAddress: m.Address,
		Collection:      collection,
		CollectionMint:  ident("collection-mint"),
		NamePrefix:      "Sale",
		URIPrefix:       "ipfs://x",
		ItemsAvailable:  100,
		Price:           1_000_000,
		PayoutWallet:    ident("payout"),
	}
}

func TestDeal_Create_StatusFixedToCreated(t *testing.T) {
	db := newTestDB(t)
	svc := NewDealService(db)
	authority, m := registerMerchant(t, db, "deal-auth-1")

	d, err := svc.Create(context.Background(), authority, dealParams(m, ident("coll-1")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != domain.DealStatusCreated {
		t.Fatalf("status = %d, want %d", d.Status, domain.DealStatusCreated)
	}
	if d.Address != domain.DealAddress(m.Address, d.Collection) {
		t.Fatalf("address %q is not derived from (merchant, collection)", d.Address)
	}
}

func TestDeal_Create_PrefixBudgets(t *testing.T) {
	db := newTestDB(t)
	svc := NewDealService(db)
	authority, m := registerMerchant(t, db, "deal-auth-2")
	ctx := context.Background()

	p := dealParams(m, ident("coll-2"))
	p.NamePrefix = strings.Repeat("a", domain.NamePrefixMax)
	p.URIPrefix = strings.Repeat("u", domain.URIPrefixMax)
	if _, err := svc.Create(ctx, authority, p); err != nil {
		t.Fatalf("prefixes at budget rejected: %v", err)
	}

	p = dealParams(m, ident("coll-2b"))
	p.NamePrefix = strings.Repeat("a", domain.NamePrefixMax+1)
	if _, err := svc.Create(ctx, authority, p); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}

	p = dealParams(m, ident("coll-2c"))
	p.URIPrefix = strings.Repeat("u", domain.URIPrefixMax+1)
	if _, err := svc.Create(ctx, authority, p); !errors.Is(err, ErrURITooLong) {
		t.Fatalf("expected ErrURITooLong, got %v", err)
	}
}

func TestDeal_Create_Authorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewDealService(db)
	_, m := registerMerchant(t, db, "deal-auth-3")

	_, err := svc.Create(context.Background(), ident("stranger"), dealParams(m, ident("coll-3")))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	_, err = svc.Create(context.Background(), ident("x"), dealParams(&domain.Merchant{Address: domain.MerchantAddress(ident("ghost"))}, ident("coll-3")))
	if !errors.Is(err, ErrMerchantNotFound) {
		t.Fatalf("expected ErrMerchantNotFound, got %v", err)
	}
}

func TestDeal_Create_IdempotentByRejection(t *testing.T) {
	db := newTestDB(t)
	svc := NewDealService(db)
	authority, m := registerMerchant(t, db, "deal-auth-4")
	ctx := context.Background()

	coll := ident("coll-4")
	first, err := svc.Create(ctx, authority, dealParams(m, coll))
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	p := dealParams(m, coll)
	p.Price = 42 // different fields must not matter
	if _, err := svc.Create(ctx, authority, p); !errors.Is(err, ErrDealExists) {
		t.Fatalf("expected ErrDealExists, got %v", err)
	}

	got, err := svc.Get(ctx, first.Address)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Price != first.Price || got.NamePrefix != first.NamePrefix {
		t.Fatalf("first deal mutated: %+v", got)
	}
}

func TestDeal_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewDealService(db)
	authority, m := registerMerchant(t, db, "deal-auth-5")
	ctx := context.Background()

	d, err := svc.Create(ctx, authority, dealParams(m, ident("coll-5")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Non-authority caller: rejected, status unchanged.
	if err := svc.UpdateStatus(ctx, ident("stranger"), d.Address, 7); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	got, _ := svc.Get(ctx, d.Address)
	if got.Status != domain.DealStatusCreated {
		t.Fatalf("status changed by unauthorized caller: %d", got.Status)
	}

	// The authority may write any byte, including 0 and 255.
	for _, status := range []uint8{0, 7, 255} {
		if err := svc.UpdateStatus(ctx, authority, d.Address, status); err != nil {
			t.Fatalf("UpdateStatus(%d): %v", status, err)
		}
		got, _ = svc.Get(ctx, d.Address)
		if got.Status != status {
			t.Fatalf("status = %d, want %d", got.Status, status)
		}
	}

	if err := svc.UpdateStatus(ctx, authority, domain.DealAddress(m.Address, "missing"), 1); !errors.Is(err, ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestDeal_ListByMerchant(t *testing.T) {
	db := newTestDB(t)
	svc := NewDealService(db)
	authority, m := registerMerchant(t, db, "deal-auth-6")
	ctx := context.Background()

	for _, c := range []string{"c1", "c2"} {
		if _, err := svc.Create(ctx, authority, dealParams(m, ident(c))); err != nil {
			t.Fatalf("Create %s: %v", c, err)
		}
	}

	deals, err := svc.ListByMerchant(ctx, m.Address)
	if err != nil || len(deals) != 2 {
		t.Fatalf("ListByMerchant = %d rows, %v", len(deals), err)
	}

	if _, err := svc.ListByMerchant(ctx, domain.MerchantAddress(ident("ghost"))); !errors.Is(err, ErrMerchantNotFound) {
		t.Fatalf("expected ErrMerchantNotFound, got %v", err)
	}
}
