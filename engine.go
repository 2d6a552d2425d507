package notice_sdk

import (
	"log"
	"net/http"
	"sync"

	"github.com/cydxin/notice-sdk/middleware"
	model "github.com/cydxin/notice-sdk/models"
	"github.com/cydxin/notice-sdk/service"
	"github.com/gin-gonic/gin"
)

type NoticeEngine struct {
	config *Config

	DojoService   *service.DojoService
	MemberService *service.MemberService
	NoticeService *service.NoticeService
	Feed          *service.FeedService
	Subscriptions *service.SubscriptionService
	TokenService  *service.TokenService // 鉴权服务
	RetryWorker   *service.FanoutRetryWorker
	WsServer      *WsServer
}

var (
	Instance *NoticeEngine
	once     sync.Once
)

// NewEngine 创建实例
// 使用选项模式传入配置，Option回调
func NewEngine(opts ...Option) *NoticeEngine {
	once.Do(func() {
		c := &Config{
			TablePrefix: "dojo_", // Default
		}
		for _, opt := range opts {
			opt(c)
		}

		Instance = &NoticeEngine{config: c}

		// 初始化 WS
		Instance.WsServer = NewWsServer()

		// 初始化基础 Service，注入 WsNotifier 回调
		baseService := &service.Service{
			DB:          c.DB,
			RDB:         c.RDB,
			TablePrefix: c.TablePrefix,
			WsNotifier:  Instance.WsServer.SendToMember, // 注入 WebSocket 通知函数
		}
		baseService.Fanout = service.NewFanoutService(baseService)
		baseService.Subs = service.NewSubscriptionService(baseService)

		// 初始化各个 Service
		Instance.DojoService = service.NewDojoService(baseService)
		Instance.MemberService = service.NewMemberService(baseService)
		Instance.NoticeService = service.NewNoticeService(baseService, c.ReadGuard)
		Instance.Subscriptions = baseService.Subs
		Instance.Feed = service.NewFeedService(baseService, c.FeedLimit)
		Instance.TokenService = service.NewTokenService(c.RDB, c.TablePrefix) // 初始化鉴权服务

		// 扇出补偿 worker（可选，需要 RDB）
		if c.FanoutRetry {
			Instance.RetryWorker = service.NewFanoutRetryWorker(baseService)
			if err := Instance.RetryWorker.Start(); err != nil {
				log.Printf("start fanout retry worker failed: %v", err)
				Instance.RetryWorker = nil
			} else {
				baseService.RetryEnqueue = Instance.RetryWorker.Enqueue
			}
		}

		// WS 会话订阅走合并流
		Instance.WsServer.SetFeedService(Instance.Feed)
		go Instance.WsServer.Run()

		// 迁移表
		if err := Instance.AutoMigrate(); err != nil {
			log.Printf("AutoMigrate failed: %v", err)
		}

		// 绑定 WS 上行帧处理
		Instance.bindWsHandlersOnMessage()
	})

	return Instance
}

func (e *NoticeEngine) AutoMigrate() error {
	db := e.config.DB
	log.Println("AutoMigrate...")
	return db.AutoMigrate(
		&model.Dojo{},
		&model.Member{},
		&model.Notice{},
		&model.NoticeInbox{},
	)
}

// Close 停掉后台组件（扇出补偿 worker）。
func (e *NoticeEngine) Close() {
	if e.RetryWorker != nil {
		e.RetryWorker.Stop()
	}
}

/*
*	提供的HTTP接口在此处，也可以直接自己写controller然后调用service
*	推荐自己写controller，因为这样更灵活
*
*
*
*
 */

// ServeWS 处理 WebSocket 请求，需要传入道场与成员身份
func (e *NoticeEngine) ServeWS(w http.ResponseWriter, r *http.Request, dojoID uint64, memberUID string) {
	m, err := e.MemberService.GetMember(dojoID, memberUID)
	if err == nil && m != nil {
		e.WsServer.ServeWS(w, r, dojoID, memberUID, m.Nickname)
		return
	}
	e.WsServer.ServeWS(w, r, dojoID, memberUID)
}

// HandleWS 返回 WebSocket 的Handler
func (e *NoticeEngine) HandleWS(dojoID uint64, memberUID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.WsServer.ServeWS(w, r, dojoID, memberUID)
	}
}

// GinAuthMiddleware 返回配置好的 Gin 鉴权中间件
// 使用 NoticeEngine 内部的 TokenService 配置
//
// 使用示例:
//
//	engine := notice_sdk.NewEngine(...)
//	r := gin.Default()
//	r.Use(engine.GinAuthMiddleware(nil)) // 使用默认配置
//	// 或自定义配置
//	r.Use(engine.GinAuthMiddleware(&middleware.AuthOptions{
//	    HeaderKey: "X-Token",
//	    QueryKey: "access_token",
//	}))
func (e *NoticeEngine) GinAuthMiddleware(opt *middleware.AuthOptions) gin.HandlerFunc {
	return middleware.GinAuthMiddleware(e.TokenService, opt)
}
