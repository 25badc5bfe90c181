// Deal HTTP handlers.
//
// This file exposes REST endpoints for deal records:
//   - POST   /deals                      (create)
//   - GET    /deals/{address}            (fetch)
//   - PATCH  /deals/{address}/status     (update status byte)
//   - GET    /merchants/{address}/deals  (list by merchant)
//
// Deal creation and status updates require the caller to be the authority of
// the owning merchant; the services enforce that check.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/http/middleware"
	"github.com/dealifi/go-deal-ledger/internal/services"
)

//
// DTOs
//

// CreateDealRequest is the JSON payload for creating a deal.
type CreateDealRequest struct {
	// MerchantAddress is the owning merchant record address.
	MerchantAddress string `json:"merchant_address" binding:"required"`
	// Collection identifies the deal's collection address.
	Collection string `json:"collection" binding:"required"`
	// CollectionMint is the collection's mint address.
	CollectionMint string `json:"collection_mint" binding:"required"`
	// NamePrefix names minted items (max 64 bytes).
	NamePrefix string `json:"name_prefix" binding:"required"`
	// URIPrefix locates item metadata (max 128 bytes).
	URIPrefix string `json:"uri_prefix" binding:"required"`
	// ItemsAvailable is the total supply offered by the deal.
	ItemsAvailable uint64 `json:"items_available"`
	// GoLiveDate optionally opens the deal at a Unix timestamp.
	GoLiveDate *int64 `json:"go_live_date"`
	// EndDate optionally closes the deal at a Unix timestamp.
	EndDate *int64 `json:"end_date"`
	// Price is the per-item price in base units.
	Price uint64 `json:"price"`
	// PayoutWallet receives sale proceeds.
	PayoutWallet string `json:"payout_wallet" binding:"required"`
	// AllowlistRoot optionally restricts buyers to a merkle allowlist.
	AllowlistRoot *string `json:"allowlist_root"`
}

// UpdateDealStatusRequest is the JSON payload for updating a deal's status.
// Status is a pointer so that zero is distinguishable from absent.
type UpdateDealStatusRequest struct {
	Status *uint8 `json:"status" binding:"required"`
}

//
// Handlers
//

// CreateDeal handles POST /deals. The caller must be the authority of the
// merchant named in the payload.
func (h *Handlers) CreateDeal(c *gin.Context) {
	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	for _, addr := range []string{req.MerchantAddress, req.Collection, req.CollectionMint, req.PayoutWallet} {
		if _, err := domain.ParseAddress(addr); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "addresses must be 64-char lowercase hex strings")
			return
		}
	}

	p := services.CreateDealParams{
		MerchantAddress: req.MerchantAddress,
		Collection:      req.Collection,
		CollectionMint:  req.CollectionMint,
		NamePrefix:      req.NamePrefix,
		URIPrefix:       req.URIPrefix,
		ItemsAvailable:  req.ItemsAvailable,
		GoLiveDate:      req.GoLiveDate,
		EndDate:         req.EndDate,
		Price:           req.Price,
		PayoutWallet:    req.PayoutWallet,
		AllowlistRoot:   req.AllowlistRoot,
	}

	d, err := h.dealSvc.Create(c.Request.Context(), middleware.CallerFrom(c), p)
	middleware.ObserveOperation("create_deal", err)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusCreated, d)
}

// GetDeal handles GET /deals/{address}.
func (h *Handlers) GetDeal(c *gin.Context) {
	addr, valid := addressParam(c)
	if !valid {
		return
	}
	d, err := h.dealSvc.Get(c.Request.Context(), addr)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusOK, d)
}

// UpdateDealStatus handles PATCH /deals/{address}/status. Only the owning
// merchant's authority may change the status byte.
func (h *Handlers) UpdateDealStatus(c *gin.Context) {
	addr, valid := addressParam(c)
	if !valid {
		return
	}

	var req UpdateDealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required (0-255)")
		return
	}

	err := h.dealSvc.UpdateStatus(c.Request.Context(), middleware.CallerFrom(c), addr, *req.Status)
	middleware.ObserveOperation("update_deal_status", err)
	if failDomain(c, err) {
		return
	}
	noContent(c)
}

// ListMerchantDeals handles GET /merchants/{address}/deals.
func (h *Handlers) ListMerchantDeals(c *gin.Context) {
	addr, valid := addressParam(c)
	if !valid {
		return
	}
	deals, err := h.dealSvc.ListByMerchant(c.Request.Context(), addr)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusOK, gin.H{"deals": deals})
}
