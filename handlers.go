package notice_sdk

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cydxin/notice-sdk/response"
	"github.com/cydxin/notice-sdk/service"
)

/*
	HTTP处理 更建议自己写HTTP的处理，然后调用对应的service，而不是获得这里的闭包来调用
	实际上更直接的方法就是直接自己写接口，service里不一定通用，只使用service里的WsNotifier去做通知即可
	这样更灵活，也更符合实际业务需求

	注意：这里的闭包不做鉴权，dojo_id/member_uid 直接从参数里取，
	适合宿主后端内网调用。对外暴露请走 Gin + GinAuthMiddleware 那套。
*/

// HandlePublishNotice 发布公告的 HTTP Handler
// @Summary 发布公告（net/http 版）
// @Description 发布公告并向受众扇出收件箱镜像
// @Tags 公告
// @Accept json
// @Produce json
// @Param req body PublishNoticeReq true "公告内容"
// @Success 200 {object} response.Response{data=PublishNoticeResp} "成功响应"
// @Failure 400 {object} response.Response "参数错误"
// @Router /notice/publish [post]
func (c *NoticeEngine) HandlePublishNotice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PublishNoticeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(response.CodeParamError, err.Error()).WriteJSON(w)
			return
		}
		if req.DojoID == 0 || req.Title == "" || req.Type == "" {
			response.Error(response.CodeParamError, "dojo_id/type/title required").WriteJSON(w)
			return
		}

		notice, fanout, err := c.NoticeService.PublishNotice(&service.PublishNoticeInput{
			DojoID:       req.DojoID,
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
			response.Error(noticeErrCode(err), err.Error()).WriteJSON(w)
			return
		}

		response.Success(PublishNoticeResp{Notice: notice, Fanout: fanout}).WriteJSON(w)
	}
}

// HandleUpdateNotice 编辑公告的 HTTP Handler
// @Summary 编辑公告（net/http 版）
// @Description 编辑公告字段并按需对账受众镜像
// @Tags 公告
// @Accept json
// @Produce json
// @Param req body UpdateNoticeReq true "编辑内容"
// @Success 200 {object} response.Response{data=PublishNoticeResp} "成功响应"
// @Failure 400 {object} response.Response "参数错误"
// @Router /notice/update [post]
func (c *NoticeEngine) HandleUpdateNotice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateNoticeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(response.CodeParamError, err.Error()).WriteJSON(w)
			return
		}
		if req.DojoID == 0 || req.NoticeID == 0 {
			response.Error(response.CodeParamError, "dojo_id/notice_id required").WriteJSON(w)
			return
		}

		notice, fanout, err := c.NoticeService.UpdateNotice(req.DojoID, req.NoticeID, &service.UpdateNoticeInput{
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
			response.Error(noticeErrCode(err), err.Error()).WriteJSON(w)
			return
		}

		response.Success(PublishNoticeResp{Notice: notice, Fanout: fanout}).WriteJSON(w)
	}
}

// HandleGetFeed 成员公告流的 HTTP Handler
// @Summary 成员公告流快照（net/http 版）
// @Description 指定成员视角的合并快照（广播 + 收件箱）
// @Tags 成员流
// @Accept json
// @Produce json
// @Param dojo_id query uint64 true "道场ID"
// @Param member_uid query string true "成员UID"
// @Success 200 {object} response.Response{data=service.FeedSnapshot} "合并快照"
// @Failure 400 {object} response.Response "参数错误"
// @Router /feed [get]
func (c *NoticeEngine) HandleGetFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dojoID, _ := strconv.ParseUint(r.URL.Query().Get("dojo_id"), 10, 64)
		memberUID := r.URL.Query().Get("member_uid")

		if dojoID == 0 || memberUID == "" {
			response.Error(response.CodeParamError, "dojo_id/member_uid required").WriteJSON(w)
			return
		}

		snap, err := c.Feed.ListFeed(dojoID, memberUID)
		if err != nil {
			response.Error(response.CodeInternalError, err.Error()).WriteJSON(w)
			return
		}

		response.Success(snap).WriteJSON(w)
	}
}

// HandleGetNoticeForMember 成员读公告详情的 HTTP Handler
// @Summary 成员读公告详情（net/http 版）
// @Description 直读 + 收件箱镜像兜底的成员视角详情
// @Tags 成员流
// @Accept json
// @Produce json
// @Param dojo_id query uint64 true "道场ID"
// @Param member_uid query string true "成员UID"
// @Param notice_id query uint64 true "公告ID"
// @Success 200 {object} response.Response{data=service.NoticeDTO} "公告详情"
// @Failure 400 {object} response.Response "参数错误"
// @Router /feed/notice [get]
func (c *NoticeEngine) HandleGetNoticeForMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dojoID, _ := strconv.ParseUint(r.URL.Query().Get("dojo_id"), 10, 64)
		noticeID, _ := strconv.ParseUint(r.URL.Query().Get("notice_id"), 10, 64)
		memberUID := r.URL.Query().Get("member_uid")

		if dojoID == 0 || noticeID == 0 || memberUID == "" {
			response.Error(response.CodeParamError, "dojo_id/member_uid/notice_id required").WriteJSON(w)
			return
		}

		notice, err := c.NoticeService.GetNoticeForMember(dojoID, memberUID, noticeID)
		if err != nil {
			response.Error(noticeErrCode(err), err.Error()).WriteJSON(w)
			return
		}

		response.Success(notice).WriteJSON(w)
	}
}

// HandleJoinDojo 成员入馆的 HTTP Handler
// @Summary 成员入馆（net/http 版）
// @Description 登记道场成员，pending 占位会转正
// @Tags 成员
// @Accept json
// @Produce json
// @Param req body JoinDojoReq true "入馆信息"
// @Success 200 {object} response.Response{data=service.MemberDTO} "成功响应"
// @Failure 400 {object} response.Response "参数错误"
// @Router /member/join [post]
func (c *NoticeEngine) HandleJoinDojo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinDojoReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(response.CodeParamError, err.Error()).WriteJSON(w)
			return
		}

		m, err := c.MemberService.JoinDojo(req.DojoID, req.MemberUID, req.Nickname)
		if err != nil {
			response.Error(response.CodeParamError, err.Error()).WriteJSON(w)
			return
		}

		response.Success(m).WriteJSON(w)
	}
}

// HandleLeaveDojo 成员离馆的 HTTP Handler
// @Summary 成员离馆（net/http 版）
// @Description 把成员置为 left
// @Tags 成员
// @Accept json
// @Produce json
// @Param req body LeaveDojoReq true "离馆信息"
// @Success 200 {object} response.Response "成功响应"
// @Failure 400 {object} response.Response "参数错误"
// @Router /member/leave [post]
func (c *NoticeEngine) HandleLeaveDojo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LeaveDojoReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(response.CodeParamError, err.Error()).WriteJSON(w)
			return
		}

		if err := c.MemberService.LeaveDojo(req.DojoID, req.MemberUID); err != nil {
			response.Error(response.CodeParamError, err.Error()).WriteJSON(w)
			return
		}

		response.Success(map[string]interface{}{
			"message": "成员已离馆",
		}).WriteJSON(w)
	}
}

// HandleIssueToken 签发接入 token 的 HTTP Handler
// @Summary 签发接入 token（net/http 版）
// @Description 为成员签发公告系统接入 token
// @Tags 鉴权
// @Accept json
// @Produce json
// @Param req body IssueTokenReq true "签发信息"
// @Success 200 {object} response.Response{data=IssueTokenResp} "成功响应"
// @Failure 400 {object} response.Response "参数错误"
// @Router /token/issue [post]
func (c *NoticeEngine) HandleIssueToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IssueTokenReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(response.CodeParamError, err.Error()).WriteJSON(w)
			return
		}
		if req.DojoID == 0 || req.MemberUID == "" {
			response.Error(response.CodeParamError, "dojo_id/member_uid required").WriteJSON(w)
			return
		}

		ttl := time.Duration(req.TTLSeconds) * time.Second
		token, err := c.TokenService.IssueToken(r.Context(), req.DojoID, req.MemberUID, ttl)
		if err != nil {
			response.Error(response.CodeInternalError, err.Error()).WriteJSON(w)
			return
		}
		if ttl <= 0 {
			ttl = 7 * 24 * time.Hour
		}

		response.Success(IssueTokenResp{
			Token:     token,
			ExpiresIn: int64(ttl / time.Second),
		}).WriteJSON(w)
	}
}
