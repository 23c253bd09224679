package provider

import (
	"github.com/bookstore-next/internal/authz"
	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/queue"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Store       *repository.Store
	QueueClient *queue.Client

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	StockService        *service.StockService
	CartService         *service.CartService
	CartValidator       *service.CartValidator
	VoucherService      *service.VoucherService
	NotificationService *service.NotificationService
	PostOrderService    *service.PostOrderService
	OrderService        *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Store:       repository.NewStore(db),
		QueueClient: queueClient,
	}
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	storeCfg := c.Config.Store
	c.AuthService = service.NewAuthService(c.Config, c.Store)
	c.StockService = service.NewStockService(c.Store, storeCfg.LowStockThreshold)
	c.VoucherService = service.NewVoucherService(c.Store, storeCfg)
	c.NotificationService = service.NewNotificationService(c.Store)
	c.CartService = service.NewCartService(c.Store, c.VoucherService)
	c.CartValidator = service.NewCartValidator(c.Store)
	c.PostOrderService = service.NewPostOrderService(c.Store, c.VoucherService, c.NotificationService)
	c.OrderService = service.NewOrderService(c.Store, c.VoucherService, c.QueueClient, c.PostOrderService, storeCfg)
	return nil
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
