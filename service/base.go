package service

import (
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Service 基础服务，包含数据库和配置
type Service struct {
	DB          *gorm.DB
	RDB         *redis.Client
	TablePrefix string
	// WsNotifier 用于向某成员的全部在线连接推送 WebSocket 消息的回调函数
	// 避免循环依赖，通过函数注入的方式
	WsNotifier func(dojoID uint64, memberUID string, message []byte)

	// Fanout 扇出引擎（收件箱物化 + 受众对账）
	Fanout *FanoutService

	// Subs 存储层实时查询（广播流/个人流订阅）
	Subs *SubscriptionService

	// RetryEnqueue 扇出失败补偿入队回调（可选，由 engine 在启用补偿 worker 时注入）。
	// 为空表示不做异步补偿，失败只体现在 FanoutResult 里。
	RetryEnqueue func(task *RetryTask)
}

// Table 获取带前缀的表名
func (s *Service) Table(name string) *gorm.DB {
	return s.DB.Table(name)
}
