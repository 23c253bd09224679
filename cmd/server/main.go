package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/bookstore-next/internal/app"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	modeFlag := flag.String("mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	mode, err := app.ParseMode(*modeFlag)
	if err != nil {
		stdLog.Fatalf("启动参数错误: %v", err)
	}
	release := cfg.Server.Mode == "release"
	if isWeakSecret(cfg.JWT.SecretKey) {
		if release {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}
	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug")
	if err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	// 建表由 API 进程负责
	if mode != app.ModeWorker {
		if err := models.AutoMigrate(db); err != nil {
			stdLog.Fatalf("数据库迁移失败: %v", err)
		}
	}

	defaultAdmin := app.DefaultAdmin{
		Username: os.Getenv("BS_DEFAULT_ADMIN_USERNAME"),
		Password: os.Getenv("BS_DEFAULT_ADMIN_PASSWORD"),
	}
	if defaultAdmin.Password == "" && mode != app.ModeWorker {
		stdLog.Printf("提示: 未设置 BS_DEFAULT_ADMIN_PASSWORD，跳过默认管理员初始化")
	}

	if err := app.Run(app.Options{
		Config:       cfg,
		DB:           db,
		DefaultAdmin: defaultAdmin,
		Logger:       logger.S(),
		Signals:      []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:         mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║              📚 Bookstore-Next API 启动中             ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "┌┐ ┌─┐┌─┐┬┌─┌─┐┌┬┐┌─┐┬─┐┌─┐   ┌┐┌┌─┐─┐ ┬┌┬┐" + ansiReset)
	fmt.Println(ansiCyan + "├┴┐│ ││ │├┴┐└─┐ │ │ │├┬┘├┤ ───│││├┤ ┌┴┬┘ │ " + ansiReset)
	fmt.Println(ansiCyan + "└─┘└─┘└─┘┴ ┴└─┘ ┴ └─┘┴└─└─┘   ┘└┘└─┘┴ └─ ┴ " + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Modes: all | api | worker" + ansiReset)
	fmt.Println(ansiBlue + "• API:     /api/v1/public, /api/v1/user, /api/v1/admin" + ansiReset)
	fmt.Println(ansiBlue + "• Health:  /health" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
