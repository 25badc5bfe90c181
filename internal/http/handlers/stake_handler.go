// User claim HTTP handlers.
//
// This file exposes REST endpoints for the claim stake lifecycle:
//   - POST /claims/stake          (stake a mint against a collection)
//   - POST /claims/unstake        (release the caller's staked claim)
//   - GET  /claims/{collection}   (fetch the caller's claim for a collection)
//
// The caller address identifies the claim owner for all three routes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealifi/go-deal-ledger/internal/domain"
	"github.com/dealifi/go-deal-ledger/internal/http/middleware"
)

// StakeRequest is the JSON payload for staking a mint.
type StakeRequest struct {
	// Collection is the collection address the claim is held against.
	Collection string `json:"collection" binding:"required"`
	// Mint is the item mint address being staked.
	Mint string `json:"mint" binding:"required"`
}

// UnstakeRequest is the JSON payload for releasing a staked claim.
type UnstakeRequest struct {
	Collection string `json:"collection" binding:"required"`
}

// Stake handles POST /claims/stake.
func (h *Handlers) Stake(c *gin.Context) {
	var req StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	for _, addr := range []string{req.Collection, req.Mint} {
		if _, err := domain.ParseAddress(addr); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "addresses must be 64-char lowercase hex strings")
			return
		}
	}

	claim, err := h.stakeSvc.Stake(c.Request.Context(), middleware.CallerFrom(c), req.Collection, req.Mint)
	middleware.ObserveOperation("stake", err)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusCreated, claim)
}

// Unstake handles POST /claims/unstake.
func (h *Handlers) Unstake(c *gin.Context) {
	var req UnstakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if _, err := domain.ParseAddress(req.Collection); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "collection must be a 64-char lowercase hex string")
		return
	}

	claim, err := h.stakeSvc.Unstake(c.Request.Context(), middleware.CallerFrom(c), req.Collection)
	middleware.ObserveOperation("unstake", err)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusOK, claim)
}

// GetClaim handles GET /claims/{collection} and returns the caller's claim
// for that collection.
func (h *Handlers) GetClaim(c *gin.Context) {
	collection := c.Param("collection")
	if _, err := domain.ParseAddress(collection); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "collection must be a 64-char lowercase hex string")
		return
	}

	claim, err := h.stakeSvc.Get(c.Request.Context(), middleware.CallerFrom(c), collection)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusOK, claim)
}
