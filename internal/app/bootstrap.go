package app

import (
	"context"
	"errors"
	"net"

	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/provider"
	"github.com/bookstore-next/internal/router"
	"github.com/bookstore-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(opts Options) (*Runner, *provider.Container, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if opts.DB == nil {
		return nil, nil, errors.New("db is nil")
	}

	container, err := provider.NewContainer(cfg, opts.DB)
	if err != nil {
		return nil, nil, err
	}
	if opts.DefaultAdmin.Password != "" {
		created, err := container.AuthService.EnsureDefaultAdmin(context.Background(), opts.DefaultAdmin.Username, opts.DefaultAdmin.Password)
		if err != nil {
			logger.Warnw("app_default_admin_init_failed", "error", err)
		} else if created {
			logger.Infow("app_default_admin_created", "username", opts.DefaultAdmin.Username)
		}
	}

	var services []Service

	if opts.servesHTTP() {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 队列未启用时由 API 进程内联处理下单后续任务
	if opts.runsWorker() {
		consumer := worker.NewConsumer(container.PostOrderService)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			container.Close()
			return nil, nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	opts = normalizeOptions(opts)

	runner, container, err := BuildRunner(opts)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start",
		"addr", net.JoinHostPort(opts.Config.Server.Host, opts.Config.Server.Port),
		"mode", opts.Mode,
		"queue_enabled", opts.Config.Queue.Enabled,
	)
	return RunWithOptions(runner, opts)
}
