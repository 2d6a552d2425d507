package notice_sdk

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cydxin/notice-sdk/response"
	"github.com/gin-gonic/gin"
)

type JoinDojoReq struct {
	DojoID    uint64 `json:"dojo_id" binding:"required" example:"1"`
	MemberUID string `json:"member_uid" binding:"required" example:"u_1001"` // 成员在宿主系统里的 UID
	Nickname  string `json:"nickname" example:"小张"`
}

// GinHandleJoinDojo 成员入馆
// @Summary 成员入馆
// @Description 把宿主系统的用户登记为道场成员。此前被定向公告占位过的成员（pending）会转正并继承已有收件箱
// @Tags 成员
// @Accept json
// @Produce json
// @Param req body JoinDojoReq true "入馆信息"
// @Success 200 {object} response.Response{data=service.MemberDTO} "入馆成功"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /member/join [post]
func (c *NoticeEngine) GinHandleJoinDojo(ctx *gin.Context) {
	var req JoinDojoReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	m, err := c.MemberService.JoinDojo(req.DojoID, req.MemberUID, req.Nickname)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeParamError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(m))
}

type LeaveDojoReq struct {
	DojoID    uint64 `json:"dojo_id" binding:"required" example:"1"`
	MemberUID string `json:"member_uid" binding:"required" example:"u_1001"`
}

// GinHandleLeaveDojo 成员离馆
// @Summary 成员离馆
// @Description 把成员置为 left。收件箱行保留但不再投递，接入 token 建议由调用方随后注销
// @Tags 成员
// @Accept json
// @Produce json
// @Param req body LeaveDojoReq true "离馆信息"
// @Success 200 {object} response.Response "离馆成功"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /member/leave [post]
func (c *NoticeEngine) GinHandleLeaveDojo(ctx *gin.Context) {
	var req LeaveDojoReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	if err := c.MemberService.LeaveDojo(req.DojoID, req.MemberUID); err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeParamError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleGetMember 查询成员
// @Summary 查询成员
// @Description 按道场 + UID 查询成员登记信息
// @Tags 成员
// @Accept json
// @Produce json
// @Param dojo_id query uint64 true "道场 ID"
// @Param member_uid query string true "成员 UID"
// @Success 200 {object} response.Response{data=service.MemberDTO} "成员信息"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /member/info [get]
func (c *NoticeEngine) GinHandleGetMember(ctx *gin.Context) {
	dojoID, err := strconv.ParseUint(ctx.Query("dojo_id"), 10, 64)
	if err != nil || dojoID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid dojo_id"))
		return
	}
	memberUID := ctx.Query("member_uid")
	if memberUID == "" {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "member_uid required"))
		return
	}

	m, err := c.MemberService.GetMember(dojoID, memberUID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeParamError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(m))
}

// GinHandleListMembers 成员列表
// @Summary 成员列表
// @Description 道场成员列表，可按状态筛选（pending/active/left）
// @Tags 成员
// @Accept json
// @Produce json
// @Param dojo_id query uint64 true "道场 ID"
// @Param status query string false "状态筛选"
// @Param limit query int false "每页条数，默认 50，最大 500"
// @Success 200 {object} response.Response{data=[]service.MemberDTO} "成员列表"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /member/list [get]
func (c *NoticeEngine) GinHandleListMembers(ctx *gin.Context) {
	dojoID, err := strconv.ParseUint(ctx.Query("dojo_id"), 10, 64)
	if err != nil || dojoID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid dojo_id"))
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	members, err := c.MemberService.ListMembers(dojoID, ctx.Query("status"), limit)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeInternalError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(members))
}

// --- 接入 token ---

type IssueTokenReq struct {
	DojoID     uint64 `json:"dojo_id" binding:"required" example:"1"`
	MemberUID  string `json:"member_uid" binding:"required" example:"u_1001"`
	TTLSeconds int64  `json:"ttl_seconds" example:"604800"` // 不传默认 7 天
}

type IssueTokenResp struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // 秒
}

// GinHandleIssueToken 签发接入 token
// @Summary 签发接入 token
// @Description 宿主后端完成自己的登录鉴权后，为某成员签发公告系统的接入 token。成员端拿它走 Bearer 头或 ?token= 访问成员接口和 WebSocket
// @Tags 鉴权
// @Accept json
// @Produce json
// @Param req body IssueTokenReq true "签发信息"
// @Success 200 {object} response.Response{data=IssueTokenResp} "签发成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /token/issue [post]
func (c *NoticeEngine) GinHandleIssueToken(ctx *gin.Context) {
	var req IssueTokenReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	if c.config == nil || c.config.RDB == nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeInternalError, "redis 服务暂未开启"))
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	token, err := c.TokenService.IssueToken(ctx.Request.Context(), req.DojoID, req.MemberUID, ttl)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeInternalError, err.Error()))
		return
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	ctx.JSON(http.StatusOK, response.Success(IssueTokenResp{
		Token:     token,
		ExpiresIn: int64(ttl / time.Second),
	}))
}

type RevokeTokenReq struct {
	Token string `json:"token" binding:"required"`
}

// GinHandleRevokeToken 注销单个 token
// @Summary 注销接入 token
// @Description 注销单个 token（成员登出某个设备）
// @Tags 鉴权
// @Accept json
// @Produce json
// @Param req body RevokeTokenReq true "注销信息"
// @Success 200 {object} response.Response "注销成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /token/revoke [post]
func (c *NoticeEngine) GinHandleRevokeToken(ctx *gin.Context) {
	var req RevokeTokenReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	if err := c.TokenService.RevokeToken(ctx.Request.Context(), req.Token); err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeInternalError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(nil))
}

type RevokeMemberTokensReq struct {
	DojoID    uint64 `json:"dojo_id" binding:"required" example:"1"`
	MemberUID string `json:"member_uid" binding:"required" example:"u_1001"`
}

// GinHandleRevokeMemberTokens 注销成员全部 token
// @Summary 注销成员全部 token
// @Description 注销某成员在该道场的全部接入 token（离馆、封禁等场景的全端下线）
// @Tags 鉴权
// @Accept json
// @Produce json
// @Param req body RevokeMemberTokensReq true "注销信息"
// @Success 200 {object} response.Response "注销成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /token/revoke_all [post]
func (c *NoticeEngine) GinHandleRevokeMemberTokens(ctx *gin.Context) {
	var req RevokeMemberTokensReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	if err := c.TokenService.RevokeAllTokensByMember(ctx.Request.Context(), req.DojoID, req.MemberUID); err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeInternalError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(nil))
}
