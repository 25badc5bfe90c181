// Record export HTTP handler.
//
// GET /records/{address} resolves an address to whichever record type lives
// there and returns the record's canonical fixed-layout bytes, base64-encoded.
// The layout is stable across releases and suitable for external indexers.
package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecordResponse is the JSON envelope for canonical record exports.
type RecordResponse struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Length  int    `json:"length"`
	// Data is the canonical layout, base64 (std encoding).
	Data string `json:"data"`
}

// GetRecord handles GET /records/{address}.
func (h *Handlers) GetRecord(c *gin.Context) {
	addr, valid := addressParam(c)
	if !valid {
		return
	}

	kind, raw, err := h.recordSvc.Canonical(c.Request.Context(), addr)
	if failDomain(c, err) {
		return
	}
	ok(c, http.StatusOK, RecordResponse{
		Address: addr,
		Kind:    kind,
		Length:  len(raw),
		Data:    base64.StdEncoding.EncodeToString(raw),
	})
}
