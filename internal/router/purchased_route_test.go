package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/provider"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type purchasedEnvelope struct {
	StatusCode int `json:"status_code"`
	Data       struct {
		BookID    uint `json:"book_id"`
		Purchased bool `json:"purchased"`
	} `json:"data"`
}

func setupRouterTest(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{SecretKey: "router-admin-secret", ExpireHours: 1},
		UserJWT: config.JWTConfig{SecretKey: "router-user-secret", ExpireHours: 1},
		Store:   config.DefaultStoreConfig(),
	}
	c, err := provider.NewContainer(cfg, db)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	t.Cleanup(c.Close)
	return SetupRouter(cfg, c), c
}

func getPurchased(t *testing.T, r *gin.Engine, token string, bookID uint) purchasedEnvelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/user/books/%d/purchased", bookID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var env purchasedEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body failed: %v, body=%s", err, w.Body.String())
	}
	return env
}

func TestUserBookPurchasedRoute(t *testing.T) {
	r, c := setupRouterTest(t)
	ctx := context.Background()

	user := &models.User{Username: "reader", Status: "active"}
	if err := c.DB.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	book := &models.Book{Name: "Middlemarch", Price: models.MustMoney("18.00"), Stock: 3}
	if err := c.DB.Create(book).Error; err != nil {
		t.Fatalf("create book failed: %v", err)
	}
	token, _, err := c.AuthService.GenerateUserJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	if env := getPurchased(t, r, token, book.ID); env.StatusCode != 0 || env.Data.Purchased {
		t.Fatalf("want not purchased before any order, got %+v", env)
	}

	if _, err := c.CartService.AddItem(ctx, user.ID, book.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := c.OrderService.CreateOrder(ctx, service.CreateOrderInput{
		UserID:         user.ID,
		Name:           "Reader",
		Phone1:         "13800000000",
		Address:        "2 Library Lane",
		PickupLocation: "Front desk",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if env := getPurchased(t, r, token, book.ID); env.Data.Purchased {
		t.Fatalf("placed order must not count as purchased, got %+v", env)
	}

	for _, next := range []models.OrderState{
		models.OrderStateConfirmed,
		models.OrderStateProcessing,
		models.OrderStateShipped,
		models.OrderStateDelivered,
	} {
		if _, err := c.OrderService.UpdateOrderState(ctx, order.ID, next); err != nil {
			t.Fatalf("advance order to %d failed: %v", next, err)
		}
	}

	env := getPurchased(t, r, token, book.ID)
	if env.StatusCode != 0 || !env.Data.Purchased || env.Data.BookID != book.ID {
		t.Fatalf("want purchased after delivery, got %+v", env)
	}
}

func TestUserBookPurchasedRouteRequiresToken(t *testing.T) {
	r, _ := setupRouterTest(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/books/1/purchased", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env purchasedEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if env.StatusCode != 401 {
		t.Fatalf("want status_code 401, got %d", env.StatusCode)
	}
}
