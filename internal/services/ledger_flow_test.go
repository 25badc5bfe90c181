package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

// TestLedgerFlow exercises the full merchant→deal→sale and stake→unstake
// lifecycle end to end through the service layer.
func TestLedgerFlow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	merchants := NewMerchantService(db)
	deals := NewDealService(db)
	sales := NewSaleService(db)
	stakes := NewStakeService(db)

	// Register merchant M with a 4-byte name.
	authority := ident("flow-authority")
	m, err := merchants.Register(ctx, authority, ident("flow-treasury"), "Acme")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Create deal D: 4-byte name prefix, 8-byte uri prefix.
	d, err := deals.Create(ctx, authority, CreateDealParams{
		MerchantAddress: m.Address,
		Collection:      ident("flow-coll"),
		CollectionMint:  ident("flow-cmint"),
		NamePrefix:      "Sale",
		URIPrefix:       "ipfs://x",
		ItemsAvailable:  100,
		Price:           1_000_000,
		PayoutWallet:    ident("flow-payout"),
	})
	if err != nil {
		t.Fatalf("create deal: %v", err)
	}
	if d.Status != domain.DealStatusCreated {
		t.Fatalf("new deal status = %d, want %d", d.Status, domain.DealStatusCreated)
	}

	// Record a sale for item X; the replay must fail.
	itemX := ident("flow-item-x")
	if _, err := sales.Record(ctx, ident("flow-buyer"), d.Address, itemX, 1_000_000); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := sales.Record(ctx, ident("flow-buyer"), d.Address, itemX, 1_000_000); !errors.Is(err, ErrSaleExists) {
		t.Fatalf("expected ErrSaleExists on replay, got %v", err)
	}

	// Stake by user U for collection C, item Y; then unstake; then fail.
	user := ident("flow-user")
	coll := ident("flow-stake-coll")
	c, err := stakes.Stake(ctx, user, coll, ident("flow-item-y"))
	if err != nil {
		t.Fatalf("stake: %v", err)
	}
	if !c.IsStaked {
		t.Fatal("claim not staked")
	}

	c, err = stakes.Unstake(ctx, user, coll)
	if err != nil {
		t.Fatalf("unstake: %v", err)
	}
	if c.IsStaked {
		t.Fatal("claim still staked")
	}

	if _, err := stakes.Unstake(ctx, user, coll); !errors.Is(err, ErrNotStaked) {
		t.Fatalf("expected ErrNotStaked on second unstake, got %v", err)
	}
}
