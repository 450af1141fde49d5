package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/floracart/floracart/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Get("/order-success/{orderId}", "orders.success", ok)

	url, err := r.URL("orders.success", map[string]string{"orderId": "abc123"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/order-success/abc123" {
		t.Errorf("unexpected url: %s", url)
	}
}

func TestURLMissingParam(t *testing.T) {
	r := router.New()
	r.Get("/order-success/{orderId}", "orders.success", ok)

	if _, err := r.URL("orders.success", nil); err == nil {
		t.Error("expected error for missing param")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route")
	}
}

func TestGroupMiddlewareApplies(t *testing.T) {
	var guarded bool
	guard := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guarded = true
			next.ServeHTTP(w, r)
		})
	}

	r := router.New()
	g := r.Group("", guard)
	g.Get("/order-history", "orders.history", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-history", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !guarded {
		t.Error("expected group middleware to run")
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/login", "auth.login", ok)
	r.Post("/login", "auth.login.submit", ok)

	infos := r.Routes()
	if len(infos) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(infos))
	}
}
