package middleware

import (
	"net/http"
	"strings"

	"github.com/cydxin/notice-sdk/response"
	"github.com/cydxin/notice-sdk/service"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const (
	// ContextDojoIDKey gin context 里保存道场 id 的 key
	ContextDojoIDKey = "dojo_id"
	// ContextMemberUIDKey gin context 里保存成员 uid 的 key
	ContextMemberUIDKey = "member_uid"
	ContextTokenKey     = "token"
)

// AuthOptions 可选配置。
type AuthOptions struct {
	// HeaderKey 默认 Authorization
	HeaderKey string
	// QueryKey 默认 token
	QueryKey string
	// DojoIDKey 默认 dojo_id
	DojoIDKey string
	// MemberUIDKey 默认 member_uid
	MemberUIDKey string
	// TokenKey 默认 token
	TokenKey string
}

func (o *AuthOptions) withDefaults() AuthOptions {
	if o == nil {
		return AuthOptions{
			HeaderKey:    "Authorization",
			QueryKey:     "token",
			DojoIDKey:    ContextDojoIDKey,
			MemberUIDKey: ContextMemberUIDKey,
			TokenKey:     ContextTokenKey,
		}
	}
	out := *o
	if out.HeaderKey == "" {
		out.HeaderKey = "Authorization"
	}
	if out.QueryKey == "" {
		out.QueryKey = "token"
	}
	if out.DojoIDKey == "" {
		out.DojoIDKey = ContextDojoIDKey
	}
	if out.MemberUIDKey == "" {
		out.MemberUIDKey = ContextMemberUIDKey
	}
	if out.TokenKey == "" {
		out.TokenKey = ContextTokenKey
	}
	return out
}

/*
	GinAuthMiddleware Gin 鉴权中间件：

- 优先从 Authorization: Bearer <token> 读取
- 如果没有，再从 query 参数读取（默认 token=xxx）
- 校验 token -> (dojoID, memberUID)（Redis）成功后，写入 gin.Context

使用：router.Use(middleware.GinAuthMiddleware(tokenService, nil))
*/
func GinAuthMiddleware(tokens *service.TokenService, opt *AuthOptions) gin.HandlerFunc {
	cfg := opt.withDefaults()

	return func(c *gin.Context) {
		if tokens == nil {
			c.Header("Content-Type", "application/json")
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
				Code: response.CodeInternalError,
				Msg:  "token service is nil",
			})
			return
		}

		// 1) header bearer
		token := ""
		ah := strings.TrimSpace(c.GetHeader(cfg.HeaderKey))
		if ah != "" {
			parts := strings.SplitN(ah, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = strings.TrimSpace(parts[1])
			}
		}

		// 2) query fallback
		if token == "" {
			token = strings.TrimSpace(c.Query(cfg.QueryKey))
		}

		if token == "" {
			c.Header("Content-Type", "application/json")
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
				Code: response.CodeTokenInvalid,
				Msg:  "missing token",
			})
			return
		}

		dojoID, memberUID, err := tokens.ResolveToken(c.Request.Context(), token)
		if err != nil {
			msg := err.Error()
			if err == redis.Nil {
				msg = "token 无效或已过期"
			}
			c.Header("Content-Type", "application/json")
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
				Code: response.CodeTokenInvalid,
				Msg:  msg,
			})
			return
		}

		c.Set(cfg.DojoIDKey, dojoID)
		c.Set(cfg.MemberUIDKey, memberUID)
		c.Set(cfg.TokenKey, token)
		c.Next()
	}
}
