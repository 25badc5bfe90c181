// Sale HTTP handlers.
//
// This file exposes REST endpoints for sale records:
//   - POST /deals/{address}/sales  (record a sale; caller is the buyer)
//   - GET  /deals/{address}/sales  (list, paginated, newest first)
//
// Sales are append-only: there is no update or delete surface.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/http/middleware"
)

// RecordSaleRequest is the JSON payload for recording a sale under a deal.
type RecordSaleRequest struct {
	// Mint is the item mint address sold to the buyer.
	Mint string `json:"mint" binding:"required"`
	// Price is the price paid in base units.
	Price uint64 `json:"price"`
}

// ListSalesResponse wraps a page of sales and pagination information.
type ListSalesResponse struct {
	Sales      []domain.Sale `json:"sales"`
	Pagination Pagination    `json:"pagination"`
}

// RecordSale handles POST /deals/{address}/sales. The caller address is
// recorded as the buyer.
func (h *Handlers) RecordSale(c *gin.Context) {
	addr, valid := addressParam(c)
	if !valid {
		return
	}

	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if _, err := domain.ParseAddress(req.Mint); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mint must be a 64-char lowercase hex string")
		return
	}

	s, err := h.saleSvc.Record(c.Request.Context(), middleware.CallerFrom(c), addr, req.Mint, req.Price)
	middleware.ObserveOperation("record_sale", err)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusCreated, s)
}

// ListSales handles GET /deals/{address}/sales with page/page_size query
// parameters. Results are ordered newest first.
func (h *Handlers) ListSales(c *gin.Context) {
	addr, valid := addressParam(c)
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.saleSvc.ListPage(c.Request.Context(), addr, page, pageSize)
	if failDomain(c, err) {
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListSalesResponse{
		Sales: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}
