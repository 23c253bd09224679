package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 进程启动模式
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 书店进程启动选项
type Options struct {
	Config          *config.Config
	DB              *gorm.DB
	DefaultAdmin    DefaultAdmin
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// DefaultAdmin 后台为空时创建的首个管理员，密码为空则跳过
type DefaultAdmin struct {
	Username string
	Password string
}

// ParseMode 校验 -mode 参数，空值视为 all
func ParseMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, api or worker)", raw)
	}
}

// servesHTTP 是否启动 API
func (o Options) servesHTTP() bool {
	return o.Mode == ModeAll || o.Mode == ModeAPI
}

// runsWorker 是否启动订单事件消费；all 模式只在队列开启时消费
func (o Options) runsWorker() bool {
	if o.Mode == ModeWorker {
		return true
	}
	return o.Mode == ModeAll && o.Config != nil && o.Config.Queue.Enabled
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 && opts.Config != nil && opts.Config.Server.ShutdownTimeoutSeconds > 0 {
		opts.ShutdownTimeout = time.Duration(opts.Config.Server.ShutdownTimeoutSeconds) * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
