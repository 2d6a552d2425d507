package main

import (
	"log"

	notice_sdk "github.com/cydxin/notice-sdk"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 1. 初始化数据库连接
	dsn := "root:password@tcp(127.0.0.1:3306)/dojo_db?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("数据库连接失败:", err)
	}

	// 2. 初始化 Redis（token 鉴权、实时流信号、扇出重试都要它；
	// 不配也能跑，但成员流退化为纯拉模式）
	rdb := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
	})

	// 3. 初始化 Notice Engine（单例模式，全局只需调用一次）
	engine := notice_sdk.NewEngine(
		notice_sdk.WithDB(db),
		notice_sdk.WithRDB(rdb),
		notice_sdk.WithTablePrefix("dojo_"), // 自定义表前缀
		notice_sdk.WithFeedLimit(100),       // 成员流快照条数上限
		notice_sdk.WithFanoutRetry(true),    // 扇出失败后台补投
	)
	defer engine.Close()

	// 4. 创建 Gin 路由
	r := gin.Default()

	// 设置 CORS（如果需要）
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 注册 Swagger UI
	notice_sdk.RegisterSwagger(r, "/swagger/*any")

	// 5. WebSocket 连接路由
	// 客户端连接：ws://localhost:8080/ws?token=YOUR_TOKEN
	// token 由 /api/v1/token/issue 签发，WebSocket 传不了 header，走 query
	r.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(400, gin.H{"error": "缺少 token 参数"})
			return
		}

		dojoID, memberUID, err := engine.TokenService.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(401, gin.H{"error": "token 无效或已过期"})
			return
		}

		// 升级为 WebSocket 连接，连上即推当前公告流快照
		engine.ServeWS(c.Writer, c.Request, dojoID, memberUID)
	})

	// 6. API 路由组
	api := r.Group("/api/v1")

	// 鉴权模块（宿主后端内网调用，不挂成员鉴权）
	tokenAPI := api.Group("/token")
	{
		tokenAPI.POST("/issue", engine.GinHandleIssueToken)
		tokenAPI.POST("/revoke", engine.GinHandleRevokeToken)
		tokenAPI.POST("/revoke_all", engine.GinHandleRevokeMemberTokens)
	}

	// 道场模块（馆方管理侧）
	dojoAPI := api.Group("/dojo")
	{
		dojoAPI.POST("/create", engine.GinHandleCreateDojo)
		dojoAPI.POST("/archive", engine.GinHandleArchiveDojo)
		dojoAPI.GET("/info", engine.GinHandleGetDojo)
	}

	// 成员模块（馆方管理侧）
	memberAPI := api.Group("/member")
	{
		memberAPI.POST("/join", engine.GinHandleJoinDojo)
		memberAPI.POST("/leave", engine.GinHandleLeaveDojo)
		memberAPI.GET("/info", engine.GinHandleGetMember)
		memberAPI.GET("/list", engine.GinHandleListMembers)
	}

	// 公告模块（馆方管理侧）
	noticeAPI := api.Group("/notice")
	{
		noticeAPI.POST("/publish", engine.GinHandlePublishNotice)
		noticeAPI.POST("/update", engine.GinHandleUpdateNotice)
		noticeAPI.POST("/archive", engine.GinHandleArchiveNotice)
		noticeAPI.GET("/info", engine.GinHandleGetNotice)
		noticeAPI.GET("/list", engine.GinHandleListNotices)
	}

	// 成员流模块（成员侧，挂 token 鉴权）
	feedAPI := api.Group("/feed", engine.GinAuthMiddleware(nil))
	{
		feedAPI.GET("", engine.GinHandleGetFeed)
		feedAPI.GET("/notice", engine.GinHandleGetNoticeForMember)
	}

	// 7. 启动服务器
	log.Println("Notice Server 启动在 :8080")
	log.Println("Swagger UI: http://localhost:8080/swagger/index.html")
	log.Println("WebSocket 地址: ws://localhost:8080/ws?token=YOUR_TOKEN")
	if err := r.Run(":8080"); err != nil {
		log.Fatal("服务器启动失败:", err)
	}
}

// 快速试一把（用 curl）：
//
//	创建道场:
//	  curl -X POST localhost:8080/api/v1/dojo/create -d '{"name":"松涛馆","owner_uid":"boss_chen"}'
//	成员入馆:
//	  curl -X POST localhost:8080/api/v1/member/join -d '{"dojo_id":1,"member_uid":"u_1001","nickname":"小张"}'
//	签发 token:
//	  curl -X POST localhost:8080/api/v1/token/issue -d '{"dojo_id":1,"member_uid":"u_1001"}'
//	发布公告:
//	  curl -X POST localhost:8080/api/v1/notice/publish -d '{"dojo_id":1,"type":"notice","title":"周六合同稽古"}'
//	成员看流:
//	  curl localhost:8080/api/v1/feed -H 'Authorization: Bearer YOUR_TOKEN'
