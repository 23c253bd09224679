package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bookstore-next/internal/authz"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"
)

type seedBook struct {
	Name      string
	Price     string
	Stock     int
	Author    string
	Publisher string
}

var seedBooks = []seedBook{
	{Name: "The Go Programming Language", Price: "39.90", Stock: 25, Author: "Alan Donovan", Publisher: "Addison-Wesley"},
	{Name: "Concurrency in Go", Price: "34.50", Stock: 12, Author: "Katherine Cox-Buday", Publisher: "O'Reilly"},
	{Name: "Designing Data-Intensive Applications", Price: "45.00", Stock: 8, Author: "Martin Kleppmann", Publisher: "O'Reilly"},
	{Name: "三体", Price: "23.00", Stock: 40, Author: "刘慈欣", Publisher: "重庆出版社"},
	{Name: "活着", Price: "18.80", Stock: 3, Author: "余华", Publisher: "作家出版社"},
	{Name: "Out of Print Sampler", Price: "9.99", Stock: 0, Author: "Anonymous", Publisher: "Small Press"},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false)
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	store := repository.NewStore(db)
	authService := service.NewAuthService(cfg, store)
	voucherService := service.NewVoucherService(store, cfg.Store)
	cartService := service.NewCartService(store, voucherService)

	// 作者 / 出版社 / 图书
	books := make([]models.Book, 0, len(seedBooks))
	authors := map[string]uint{}
	publishers := map[string]uint{}
	for _, item := range seedBooks {
		authorID, ok := authors[item.Author]
		if !ok {
			author := models.Author{Name: item.Author}
			if err := db.Create(&author).Error; err != nil {
				stdLog.Fatalf("Failed to create author: %v", err)
			}
			authorID = author.ID
			authors[item.Author] = authorID
		}
		publisherID, ok := publishers[item.Publisher]
		if !ok {
			publisher := models.Publisher{Name: item.Publisher}
			if err := db.Create(&publisher).Error; err != nil {
				stdLog.Fatalf("Failed to create publisher: %v", err)
			}
			publisherID = publisher.ID
			publishers[item.Publisher] = publisherID
		}
		book := models.Book{
			Name:        item.Name,
			Price:       models.MustMoney(item.Price),
			Stock:       item.Stock,
			AuthorID:    &authorID,
			PublisherID: &publisherID,
		}
		if err := store.Books.Create(&book); err != nil {
			stdLog.Fatalf("Failed to create book: %v", err)
		}
		books = append(books, book)
	}

	// 优惠券（欢迎券在首次加购时按配置自动创建）
	vouchers := []models.Voucher{
		{
			Name:            "READMORE10",
			DiscountPercent: 10,
			MaxDiscount:     models.MustMoney("10.00"),
			ValidUntil:      time.Now().AddDate(1, 0, 0),
		},
		{
			Name:            "BOOKWORM20",
			DiscountPercent: 20,
			MaxDiscount:     models.MustMoney("15.00"),
			MinOrderAmount:  models.MustMoney("50.00"),
			ValidUntil:      time.Now().AddDate(0, 3, 0),
		},
		{
			Name:            "EXPIRED5",
			DiscountPercent: 5,
			ValidUntil:      time.Now().AddDate(0, 0, -1),
		},
	}
	for i := range vouchers {
		if err := store.Vouchers.Create(&vouchers[i]); err != nil {
			stdLog.Fatalf("Failed to create voucher: %v", err)
		}
	}

	// 演示用户及购物车
	users := []models.User{
		{Username: "alice", Email: "alice@example.com", Status: "active"},
		{Username: "bob", Email: "bob@example.com", Status: "active"},
	}
	for i := range users {
		if err := store.Users.Create(&users[i]); err != nil {
			stdLog.Fatalf("Failed to create user: %v", err)
		}
		if _, err := cartService.EnsureCart(ctx, users[i].ID); err != nil {
			stdLog.Fatalf("Failed to create cart: %v", err)
		}
	}
	if _, err := store.Vouchers.AssignToUser(users[0].ID, vouchers[1].ID, time.Now()); err != nil {
		stdLog.Fatalf("Failed to assign voucher: %v", err)
	}
	if _, err := cartService.AddItem(ctx, users[0].ID, books[0].ID, 2); err != nil {
		stdLog.Fatalf("Failed to add cart item: %v", err)
	}
	if _, err := cartService.AddItem(ctx, users[0].ID, books[3].ID, 1); err != nil {
		stdLog.Fatalf("Failed to add cart item: %v", err)
	}

	// 管理员与角色
	if _, err := authService.EnsureDefaultAdmin(ctx, "admin", "admin123456"); err != nil {
		stdLog.Fatalf("Failed to create admin: %v", err)
	}
	hash, err := authService.HashPassword("stock123456")
	if err != nil {
		stdLog.Fatalf("Failed to hash password: %v", err)
	}
	keeper := models.Admin{Username: "keeper", PasswordHash: hash}
	if err := store.Admins.Create(&keeper); err != nil {
		stdLog.Fatalf("Failed to create admin: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}
	if err := authzService.SetAdminRoles(keeper.ID, []string{authz.RoleStockKeeper}); err != nil {
		stdLog.Fatalf("Failed to assign roles: %v", err)
	}

	fmt.Println("Seed data created successfully!")
	fmt.Printf("Books: %d, Vouchers: %d, Users: %d\n", len(books), len(vouchers), len(users))
	for i := range users {
		token, expiresAt, err := authService.GenerateUserJWT(&users[i])
		if err != nil {
			stdLog.Fatalf("Failed to sign user token: %v", err)
		}
		fmt.Printf("user %-6s token (expires %s): %s\n", users[i].Username, expiresAt.Format(time.RFC3339), token)
	}
	keeperToken, _, err := authService.GenerateJWT(&keeper)
	if err != nil {
		stdLog.Fatalf("Failed to sign admin token: %v", err)
	}
	fmt.Printf("admin keeper token: %s\n", keeperToken)
	fmt.Println("Admin login: admin / admin123456")
}
