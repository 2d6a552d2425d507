package notice_sdk

import "gorm.io/gorm"
import "github.com/go-redis/redis/v8"
import "github.com/cydxin/notice-sdk/service"

type ServiceConfig struct {
	Debug bool
}

type Config struct {
	DB          *gorm.DB
	RDB         *redis.Client
	TablePrefix string
	Service     ServiceConfig

	// FeedLimit 合并流快照的最大条数，0 用默认值
	FeedLimit int

	// FanoutRetry 是否启用扇出失败的异步补偿 worker（需要 RDB）
	FanoutRetry bool

	// ReadGuard 成员直读公告的权限回调，nil 用默认实现（受众判定）
	ReadGuard service.ReadGuard
}

type Option func(*Config)

func WithDB(db *gorm.DB) Option {
	return func(c *Config) {
		c.DB = db
	}
}

func WithTablePrefix(prefix string) Option {
	return func(c *Config) {
		c.TablePrefix = prefix
	}
}

func WithRDB(RDB *redis.Client) Option {
	return func(c *Config) {
		c.RDB = RDB
	}
}

func WithServiceDebug(debug bool) Option {
	return func(c *Config) {
		c.Service.Debug = debug
	}
}

// WithFeedLimit 配置合并流快照条数上限。
func WithFeedLimit(limit int) Option {
	return func(c *Config) {
		c.FeedLimit = limit
	}
}

// WithFanoutRetry 启用扇出补偿 worker，把同步重试打满的收件箱写转入异步补偿。
func WithFanoutRetry(enabled bool) Option {
	return func(c *Config) {
		c.FanoutRetry = enabled
	}
}

// WithReadGuard 替换成员直读公告的权限判定。
func WithReadGuard(guard service.ReadGuard) Option {
	return func(c *Config) {
		c.ReadGuard = guard
	}
}
