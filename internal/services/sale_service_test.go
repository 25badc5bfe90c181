package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

func createDeal(t *testing.T, db *gorm.DB, label string) *domain.Deal {
	t.Helper()
	authority, m := registerMerchant(t, db, label)
	d, err := NewDealService(db).Create(context.Background(), authority, dealParams(m, ident(label+"-coll")))
	if err != nil {
		t.Fatalf("create deal: %v", err)
	}
	return d
}

func TestSale_Record_TimestampFromClock(t *testing.T) {
	db := newTestDB(t)
	d := createDeal(t, db, "sale-1")

	frozen := time.Unix(1_750_000_000, 0).UTC()
	svc := &SaleService{DB: db, Now: func() time.Time { return frozen }}

	sale, err := svc.Record(context.Background(), ident("buyer"), d.Address, ident("mint-1"), 1_000_000)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if sale.Timestamp != frozen.Unix() {
		t.Fatalf("timestamp = %d, want clock value %d", sale.Timestamp, frozen.Unix())
	}
	if sale.Address != domain.SaleAddress(d.Address, sale.Mint) {
		t.Fatalf("address %q is not derived from (deal, mint)", sale.Address)
	}
}

func TestSale_Record_ReplayRejected(t *testing.T) {
	db := newTestDB(t)
	d := createDeal(t, db, "sale-2")
	svc := NewSaleService(db)
	ctx := context.Background()

	mint := ident("mint-2")
	if _, err := svc.Record(ctx, ident("buyer-a"), d.Address, mint, 500); err != nil {
		t.Fatalf("first Record: %v", err)
	}

	// Same (deal, mint), even from another buyer: rejected.
	_, err := svc.Record(ctx, ident("buyer-b"), d.Address, mint, 999)
	if !errors.Is(err, ErrSaleExists) {
		t.Fatalf("expected ErrSaleExists, got %v", err)
	}
}

func TestSale_Record_DealMustExist(t *testing.T) {
	db := newTestDB(t)
	svc := NewSaleService(db)

	_, err := svc.Record(context.Background(), ident("buyer"), domain.DealAddress(ident("ghost"), "c"), ident("mint"), 1)
	if !errors.Is(err, ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestSale_ListPage(t *testing.T) {
	db := newTestDB(t)
	d := createDeal(t, db, "sale-3")
	svc := NewSaleService(db)
	ctx := context.Background()

	for i, mint := range []string{"m1", "m2", "m3"} {
		if _, err := svc.Record(ctx, ident("buyer"), d.Address, ident(mint), uint64(i)); err != nil {
			t.Fatalf("Record %s: %v", mint, err)
		}
	}

	items, total, err := svc.ListPage(ctx, d.Address, 1, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("total=%d len=%d, want 3/2", total, len(items))
	}

	_, _, err = svc.ListPage(ctx, domain.DealAddress(ident("ghost"), "c"), 1, 10)
	if !errors.Is(err, ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}
