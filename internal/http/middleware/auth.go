// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides caller identification. Cryptographic co-signing is a
// host/gateway concern: by the time a request reaches this service, the
// gateway has verified the signature and forwards the signer's address in the
// X-Caller-Address header. This middleware validates the address shape and
// attaches it to the request context; every authorization decision downstream
// compares this identity against a stored authority field.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

const (
	// callerKey is the Gin context key under which the caller address is stored.
	callerKey = "caller"
	// HeaderCallerAddress carries the verified signer address set by the gateway.
	HeaderCallerAddress = "X-Caller-Address"
)

// CallerAddress extracts and validates the caller identity for mutating and
// caller-scoped endpoints.
//
// Behavior:
//   - Missing header: 401 with code "unauthorized".
//   - Malformed address (not 64 hex chars): 400 with code "bad_request".
//   - Otherwise the address is stored under the "caller" context key.
func CallerAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := strings.TrimSpace(c.GetHeader(HeaderCallerAddress))
		if addr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "missing " + HeaderCallerAddress + " header",
			})
			return
		}
		if _, err := domain.ParseAddress(addr); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "bad_request",
				"message":    "malformed caller address",
			})
			return
		}
		c.Set(callerKey, addr)
		c.Next()
	}
}

// CallerFrom returns the validated caller address from the Gin context, or ""
// when CallerAddress() did not run (e.g. public read endpoints).
func CallerFrom(c *gin.Context) string {
	if v, ok := c.Get(callerKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
