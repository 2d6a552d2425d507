package notice_sdk

import (
	"net/http"
	"strconv"

	"github.com/cydxin/notice-sdk/response"
	"github.com/gin-gonic/gin"
)

// GinHandleGetFeed 成员公告流
// @Summary 成员公告流快照
// @Description 当前成员视角的合并快照：全员广播 + 个人收件箱，按公告去重、send_at 倒序。只含投递窗口内的公告（已发送或到点的排期），身份取自鉴权上下文
// @Tags 成员流
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=service.FeedSnapshot} "合并快照"
// @Failure 401 {object} response.Response "未认证"
// @Security BearerAuth
// @Router /feed [get]
func (c *NoticeEngine) GinHandleGetFeed(ctx *gin.Context) {
	dojoID, ok := dojoIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "dojo_id not found in context"))
		return
	}
	memberUID, ok := memberUIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "member_uid not found in context"))
		return
	}

	snap, err := c.Feed.ListFeed(dojoID, memberUID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeInternalError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(snap))
}

// GinHandleGetNoticeForMember 成员读公告详情
// @Summary 成员读公告详情
// @Description 成员视角的公告详情：先直读公告表并过准入判断，判不过时回落收件箱镜像给降级视图（degraded=true，缺正文与附件）。两路都读不到才报错
// @Tags 成员流
// @Accept json
// @Produce json
// @Param notice_id query uint64 true "公告 ID"
// @Success 200 {object} response.Response{data=service.NoticeDTO} "公告详情（可能为降级视图）"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 401 {object} response.Response "未认证"
// @Security BearerAuth
// @Router /feed/notice [get]
func (c *NoticeEngine) GinHandleGetNoticeForMember(ctx *gin.Context) {
	dojoID, ok := dojoIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "dojo_id not found in context"))
		return
	}
	memberUID, ok := memberUIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "member_uid not found in context"))
		return
	}

	noticeID, err := strconv.ParseUint(ctx.Query("notice_id"), 10, 64)
	if err != nil || noticeID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid notice_id"))
		return
	}

	notice, err := c.NoticeService.GetNoticeForMember(dojoID, memberUID, noticeID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(noticeErrCode(err), err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(notice))
}
