package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildAdminPermissionCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noop := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/api/v1/admin/login", noop)
	r.GET("/api/v1/admin/books/restock", noop)
	r.PUT("/api/v1/admin/books/:id/stock", noop)
	r.PATCH("/api/v1/admin/orders/:id/state", noop)
	r.GET("/api/v1/admin/authz/me", noop)
	r.GET("/api/v1/user/cart", noop)

	items := buildAdminPermissionCatalog(r)
	if len(items) != 4 {
		t.Fatalf("catalog want 4 admin routes, got %d: %+v", len(items), items)
	}
	modules := map[string]int{}
	for _, item := range items {
		modules[item.Module]++
		if item.Object == "/admin/login" {
			t.Fatalf("login route must be excluded")
		}
	}
	if modules["books"] != 2 || modules["orders"] != 1 || modules["authz"] != 1 {
		t.Fatalf("unexpected module grouping: %v", modules)
	}
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"/admin/orders/:id/state": "orders",
		"/admin/stats/revenue":    "stats",
		"/admin/authz/me":         "authz",
		"":                        "system",
	}
	for in, want := range cases {
		if got := deriveAdminPermissionModule(in); got != want {
			t.Fatalf("derive(%q) want %s got %s", in, want, got)
		}
	}
}
