// Merchant HTTP handlers.
//
// This file exposes REST endpoints for merchant records:
//   - POST   /merchants                     (register)
//   - GET    /merchants                     (list, paginated)
//   - GET    /merchants/{address}           (fetch)
//   - GET    /merchants/{address}/deals     (deals owned by a merchant; see deal_handler.go)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. It also defines the service
// contracts and the Handlers wiring shared by every endpoint in this package.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/http/middleware"
	"github.com/dealifi/go-deal-ledger/internal/services"
	"github.com/dealifi/go-deal-ledger/internal/utils"
)

//
// Service contracts (context-aware)
//

// MerchantService defines merchant lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MerchantService interface {
	// Register creates a merchant record owned by authority.
	Register(ctx context.Context, authority, treasury, name string) (*domain.Merchant, error)
	// Get returns the merchant stored at address.
	Get(ctx context.Context, address string) (*domain.Merchant, error)
	// ListPage returns a page of merchants and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Merchant, int64, error)
}

// DealService defines deal lifecycle operations consumed by HTTP handlers.
type DealService interface {
	// Create registers a deal under the caller's merchant record.
	Create(ctx context.Context, caller string, p services.CreateDealParams) (*domain.Deal, error)
	// UpdateStatus sets the status byte of a deal owned by caller.
	UpdateStatus(ctx context.Context, caller, dealAddress string, status uint8) error
	// Get returns the deal stored at address.
	Get(ctx context.Context, address string) (*domain.Deal, error)
	// ListByMerchant returns all deals registered under a merchant.
	ListByMerchant(ctx context.Context, merchantAddress string) ([]domain.Deal, error)
}

// SaleService defines sale recording and listing operations.
type SaleService interface {
	// Record appends an immutable sale row under a deal.
	Record(ctx context.Context, buyer, dealAddress, mint string, price uint64) (*domain.Sale, error)
	// ListPage returns a page of sales for a deal and the total count.
	ListPage(ctx context.Context, dealAddress string, page, pageSize int) ([]domain.Sale, int64, error)
}

// StakeService defines user claim stake lifecycle operations.
type StakeService interface {
	// Stake creates a staked claim for (user, collection).
	Stake(ctx context.Context, user, collection, mint string) (*domain.UserClaim, error)
	// Unstake releases the caller's staked claim for a collection.
	Unstake(ctx context.Context, user, collection string) (*domain.UserClaim, error)
	// Get returns the claim for (user, collection).
	Get(ctx context.Context, user, collection string) (*domain.UserClaim, error)
}

// RecordService resolves any record address to its canonical byte layout.
type RecordService interface {
	// Canonical returns the record kind and canonical layout bytes.
	Canonical(ctx context.Context, address string) (string, []byte, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for merchants, deals, sales, and claims.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	merchantSvc MerchantService
	dealSvc     DealService
	saleSvc     SaleService
	stakeSvc    StakeService
	recordSvc   RecordService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(merchantSvc MerchantService, dealSvc DealService, saleSvc SaleService, stakeSvc StakeService, recordSvc RecordService) *Handlers {
	return &Handlers{
		merchantSvc: merchantSvc,
		dealSvc:     dealSvc,
		saleSvc:     saleSvc,
		stakeSvc:    stakeSvc,
		recordSvc:   recordSvc,
	}
}

//
// DTOs
//

// RegisterMerchantRequest is the JSON payload for registering a merchant.
type RegisterMerchantRequest struct {
	// Treasury is the merchant's payout treasury address.
	Treasury string `json:"treasury" binding:"required"`
	// Name is the merchant's display name (max 64 bytes).
	Name string `json:"name" binding:"required"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListMerchantsResponse wraps a page of merchants and pagination information.
type ListMerchantsResponse struct {
	Merchants  []domain.Merchant `json:"merchants"`
	Pagination Pagination        `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// addressParam validates the :address path parameter. On failure it writes a
// 400 response and returns false.
func addressParam(c *gin.Context) (string, bool) {
	addr := c.Param("address")
	if _, err := domain.ParseAddress(addr); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "address must be a 64-char lowercase hex string")
		return "", false
	}
	return addr, true
}

// failDomain translates service sentinel errors into HTTP responses. It
// returns false when err is nil (nothing was written).
func failDomain(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrNameTooLong):
		fail(c, http.StatusBadRequest, ErrCodeNameTooLong, err.Error())
	case errors.Is(err, services.ErrURITooLong):
		fail(c, http.StatusBadRequest, ErrCodeURITooLong, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, services.ErrMerchantNotFound),
		errors.Is(err, services.ErrDealNotFound),
		errors.Is(err, services.ErrClaimNotFound),
		errors.Is(err, services.ErrRecordNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrMerchantExists),
		errors.Is(err, services.ErrDealExists),
		errors.Is(err, services.ErrSaleExists),
		errors.Is(err, services.ErrClaimExists),
		errors.Is(err, services.ErrAlreadyStaked):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrNotStaked):
		fail(c, http.StatusConflict, ErrCodeNotStaked, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
	return true
}

//
// Handlers
//

// RegisterMerchant handles POST /merchants. The caller address (from the
// X-Caller-Address header) becomes the merchant authority.
func (h *Handlers) RegisterMerchant(c *gin.Context) {
	var req RegisterMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if _, err := domain.ParseAddress(req.Treasury); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "treasury must be a 64-char lowercase hex string")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	m, err := h.merchantSvc.Register(c.Request.Context(), middleware.CallerFrom(c), req.Treasury, name)
	middleware.ObserveOperation("register_merchant", err)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusCreated, m)
}

// GetMerchant handles GET /merchants/{address}.
func (h *Handlers) GetMerchant(c *gin.Context) {
	addr, valid := addressParam(c)
	if !valid {
		return
	}
	m, err := h.merchantSvc.Get(c.Request.Context(), addr)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusOK, m)
}

// ListMerchants handles GET /merchants with page/page_size query parameters.
func (h *Handlers) ListMerchants(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.merchantSvc.ListPage(c.Request.Context(), page, pageSize)
	if failDomain(c, err) {
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListMerchantsResponse{
		Merchants: items,
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
