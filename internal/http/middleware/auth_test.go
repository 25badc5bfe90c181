package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dealifi/go-deal-ledger/internal/domain"
)

func newCallerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CallerAddress())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CallerFrom(c))
	})
	return r
}

func TestCallerAddress_Missing(t *testing.T) {
	r := newCallerRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCallerAddress_Malformed(t *testing.T) {
	r := newCallerRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderCallerAddress, "not-hex")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCallerAddress_Valid(t *testing.T) {
	r := newCallerRouter()
	addr := domain.DeriveAddress("test", "caller")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderCallerAddress, addr)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != addr {
		t.Fatalf("caller = %q, want %q", w.Body.String(), addr)
	}
}

func TestCallerFrom_AbsentIsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CallerFrom(c); got != "" {
		t.Fatalf("CallerFrom = %q, want empty", got)
	}
}
