package notice_sdk

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cydxin/notice-sdk/middleware"
	"github.com/cydxin/notice-sdk/models"
	"github.com/cydxin/notice-sdk/response"
	"github.com/cydxin/notice-sdk/service"
	"github.com/gin-gonic/gin"
)

// dojoIDFromContext 从鉴权中间件注入的上下文里取道场 ID。
// 注意：这需要配合 GinAuthMiddleware 使用
func dojoIDFromContext(ctx *gin.Context) (uint64, bool) {
	v, exists := ctx.Get(middleware.ContextDojoIDKey)
	if !exists {
		return 0, false
	}

	// 类型断言
	switch id := v.(type) {
	case uint64:
		return id, true
	case float64: // 有些 JSON 解析可能会变成 float64
		return uint64(id), true
	case int:
		return uint64(id), true
	default:
		return 0, false
	}
}

// memberUIDFromContext 从鉴权中间件注入的上下文里取成员 UID。
func memberUIDFromContext(ctx *gin.Context) (string, bool) {
	v, exists := ctx.Get(middleware.ContextMemberUIDKey)
	if !exists {
		return "", false
	}
	uid, ok := v.(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}

// noticeErrCode 公告业务错误到状态码的映射，handler 共用。
func noticeErrCode(err error) int {
	switch {
	case errors.Is(err, service.ErrNoticeNotFound):
		return response.CodeNoticeNotFound
	case errors.Is(err, service.ErrInvalidAudience):
		return response.CodeInvalidAudience
	case errors.Is(err, service.ErrInvalidNoticeInput):
		return response.CodeParamError
	case errors.Is(err, service.ErrPermissionDenied):
		return response.CodePermissionDeny
	case errors.Is(err, service.ErrDeliveryUnavailable):
		return response.CodeDeliveryUnavailable
	default:
		return response.CodeInternalError
	}
}

type PublishNoticeReq struct {
	DojoID       uint64                  `json:"dojo_id" example:"1"`                      // 不传则取鉴权上下文里的道场
	Type         string                  `json:"type" binding:"required" example:"notice"` // notice / memo
	Title        string                  `json:"title" binding:"required" example:"周六合同稽古"`
	Body         string                  `json:"body" example:"周六 14:00 全员合同稽古，请自带护具"`
	AudienceType string                  `json:"audience_type" example:"all"` // all / uids，默认 all
	AudienceUIDs []string                `json:"audience_uids"`
	StartTime    time.Time               `json:"start_time"` // 不传取当前时间
	EndTime      *time.Time              `json:"end_time"`
	SendAt       *time.Time              `json:"send_at"` // 不传取 start_time，可排期到未来
	Attachments  []service.AttachmentDTO `json:"attachments"`
	Draft        bool                    `json:"draft"` // true 时落为草稿，不对成员可见
	CreatedBy    string                  `json:"created_by" example:"coach_wang"`
}

// PublishNoticeResp 发布/编辑公告的返回：公告视图 + 扇出结果。
// 扇出部分失败不影响公告本身，失败成员记在 fanout.failed 里。
type PublishNoticeResp struct {
	Notice *service.NoticeDTO    `json:"notice"`
	Fanout *service.FanoutResult `json:"fanout,omitempty"`
}

// GinHandlePublishNotice 发布公告
// @Summary 发布公告
// @Description 发布公告并向受众扇出收件箱镜像。公告落库是成败锚点；扇出尽力而为，部分失败会体现在返回的 fanout.failed 里（开启重试后由后台补投），不会回滚公告
// @Tags 公告
// @Accept json
// @Produce json
// @Param req body PublishNoticeReq true "公告内容"
// @Success 200 {object} response.Response{data=PublishNoticeResp} "发布成功"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /notice/publish [post]
func (c *NoticeEngine) GinHandlePublishNotice(ctx *gin.Context) {
	var req PublishNoticeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	dojoID := req.DojoID
	if dojoID == 0 {
		id, ok := dojoIDFromContext(ctx)
		if !ok {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "dojo_id required"))
			return
		}
		dojoID = id
	}

	notice, fanout, err := c.NoticeService.PublishNotice(&service.PublishNoticeInput{
		DojoID:       dojoID,
		Type:         req.Type,
		Title:        req.Title,
		Body:         req.Body,
		AudienceType: req.AudienceType,
		AudienceUIDs: req.AudienceUIDs,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SendAt:       req.SendAt,
		Attachments:  req.Attachments,
		Draft:        req.Draft,
		CreatedBy:    req.CreatedBy,
	})
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(noticeErrCode(err), err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(PublishNoticeResp{Notice: notice, Fanout: fanout}))
}

type UpdateNoticeReq struct {
	NoticeID     uint64                   `json:"notice_id" binding:"required" example:"7"`
	DojoID       uint64                   `json:"dojo_id" example:"1"` // 不传则取鉴权上下文里的道场
	Title        *string                  `json:"title"`
	Body         *string                  `json:"body"`
	AudienceType *string                  `json:"audience_type"` // 与 audience_uids 一起解释
	AudienceUIDs *[]string                `json:"audience_uids"`
	StartTime    *time.Time               `json:"start_time"`
	EndTime      *time.Time               `json:"end_time"`
	SendAt       *time.Time               `json:"send_at"`
	Status       *string                  `json:"status"` // draft / scheduled / sent / archived
	Attachments  *[]service.AttachmentDTO `json:"attachments"`
}

// GinHandleUpdateNotice 编辑公告
// @Summary 编辑公告
// @Description 编辑公告字段，为 null 的字段不更新。改受众或改状态会触发对账：新进名单的成员补投镜像，被移出的摘除镜像
// @Tags 公告
// @Accept json
// @Produce json
// @Param req body UpdateNoticeReq true "编辑内容（notice_id 必填，其余可选）"
// @Success 200 {object} response.Response{data=PublishNoticeResp} "编辑成功"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /notice/update [post]
func (c *NoticeEngine) GinHandleUpdateNotice(ctx *gin.Context) {
	var req UpdateNoticeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	dojoID := req.DojoID
	if dojoID == 0 {
		id, ok := dojoIDFromContext(ctx)
		if !ok {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "dojo_id required"))
			return
		}
		dojoID = id
	}

	notice, fanout, err := c.NoticeService.UpdateNotice(dojoID, req.NoticeID, &service.UpdateNoticeInput{
		Title:        req.Title,
		Body:         req.Body,
		AudienceType: req.AudienceType,
		AudienceUIDs: req.AudienceUIDs,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SendAt:       req.SendAt,
		Status:       req.Status,
		Attachments:  req.Attachments,
	})
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(noticeErrCode(err), err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(PublishNoticeResp{Notice: notice, Fanout: fanout}))
}

type ArchiveNoticeReq struct {
	NoticeID uint64 `json:"notice_id" binding:"required" example:"7"`
	DojoID   uint64 `json:"dojo_id" example:"1"` // 不传则取鉴权上下文里的道场
}

// GinHandleArchiveNotice 下架公告
// @Summary 下架公告
// @Description 把公告置为 archived，使其退出投递窗口，成员侧会收到快照刷新。等价于编辑接口把 status 改成 archived
// @Tags 公告
// @Accept json
// @Produce json
// @Param req body ArchiveNoticeReq true "下架信息"
// @Success 200 {object} response.Response{data=PublishNoticeResp} "下架成功"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /notice/archive [post]
func (c *NoticeEngine) GinHandleArchiveNotice(ctx *gin.Context) {
	var req ArchiveNoticeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	dojoID := req.DojoID
	if dojoID == 0 {
		id, ok := dojoIDFromContext(ctx)
		if !ok {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "dojo_id required"))
			return
		}
		dojoID = id
	}

	archived := models.NoticeStatusArchived
	notice, fanout, err := c.NoticeService.UpdateNotice(dojoID, req.NoticeID, &service.UpdateNoticeInput{
		Status: &archived,
	})
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(noticeErrCode(err), err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(PublishNoticeResp{Notice: notice, Fanout: fanout}))
}

// GinHandleGetNotice 查询公告（馆方视角）
// @Summary 查询公告详情
// @Description 馆方视角的完整公告视图，带受众声明与附件。成员视角请走 /feed/notice
// @Tags 公告
// @Accept json
// @Produce json
// @Param notice_id query uint64 true "公告 ID"
// @Param dojo_id query uint64 false "道场 ID，不传则取鉴权上下文"
// @Success 200 {object} response.Response{data=service.NoticeDTO} "公告详情"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /notice/info [get]
func (c *NoticeEngine) GinHandleGetNotice(ctx *gin.Context) {
	noticeID, err := strconv.ParseUint(ctx.Query("notice_id"), 10, 64)
	if err != nil || noticeID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid notice_id"))
		return
	}

	var dojoID uint64
	if raw := ctx.Query("dojo_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid dojo_id"))
			return
		}
		dojoID = id
	} else {
		id, ok := dojoIDFromContext(ctx)
		if !ok {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "dojo_id required"))
			return
		}
		dojoID = id
	}

	notice, err := c.NoticeService.GetNotice(dojoID, noticeID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(noticeErrCode(err), err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(notice))
}

// NoticeListResp 公告列表页。NextCursor 为 0 表示没有更多。
type NoticeListResp struct {
	Items      []service.NoticeDTO `json:"items"`
	NextCursor uint64              `json:"next_cursor"`
}

// GinHandleListNotices 公告列表（馆方视角）
// @Summary 公告列表
// @Description 按 ID 倒序的游标分页列表，可按状态筛选。cursor 传上一页返回的 next_cursor，首页不传
// @Tags 公告
// @Accept json
// @Produce json
// @Param dojo_id query uint64 false "道场 ID，不传则取鉴权上下文"
// @Param status query string false "状态筛选：draft/scheduled/sent/archived"
// @Param cursor query uint64 false "游标，上一页的 next_cursor"
// @Param limit query int false "每页条数，默认 20，最大 200"
// @Success 200 {object} response.Response{data=NoticeListResp} "公告列表"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /notice/list [get]
func (c *NoticeEngine) GinHandleListNotices(ctx *gin.Context) {
	var dojoID uint64
	if raw := ctx.Query("dojo_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid dojo_id"))
			return
		}
		dojoID = id
	} else {
		id, ok := dojoIDFromContext(ctx)
		if !ok {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "dojo_id required"))
			return
		}
		dojoID = id
	}

	cursor, _ := strconv.ParseUint(ctx.DefaultQuery("cursor", "0"), 10, 64)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	items, next, err := c.NoticeService.ListNotices(dojoID, ctx.Query("status"), cursor, limit)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(noticeErrCode(err), err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(NoticeListResp{Items: items, NextCursor: next}))
}
