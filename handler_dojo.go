package notice_sdk

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cydxin/notice-sdk/response"
	"github.com/cydxin/notice-sdk/service"
	"github.com/gin-gonic/gin"
)

type CreateDojoReq struct {
	Name     string `json:"name" binding:"required" example:"松涛馆 城南道场"`
	OwnerUID string `json:"owner_uid" binding:"required" example:"boss_chen"` // 馆主在宿主系统里的 UID
}

// GinHandleCreateDojo 创建道场
// @Summary 创建道场
// @Description 创建一个道场（公告的隔离边界），owner_uid 记录馆主，归档时校验
// @Tags 道场
// @Accept json
// @Produce json
// @Param req body CreateDojoReq true "道场信息"
// @Success 200 {object} response.Response{data=service.DojoDTO} "创建成功"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /dojo/create [post]
func (c *NoticeEngine) GinHandleCreateDojo(ctx *gin.Context) {
	var req CreateDojoReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	dojo, err := c.DojoService.CreateDojo(req.Name, req.OwnerUID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeParamError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(dojo))
}

type ArchiveDojoReq struct {
	DojoID      uint64 `json:"dojo_id" binding:"required" example:"1"`
	OperatorUID string `json:"operator_uid" binding:"required" example:"boss_chen"` // 必须是馆主
}

// GinHandleArchiveDojo 归档道场
// @Summary 归档道场
// @Description 馆主把道场置为 archived，之后该道场不再接受发布与加入。只有 owner_uid 能操作
// @Tags 道场
// @Accept json
// @Produce json
// @Param req body ArchiveDojoReq true "归档信息"
// @Success 200 {object} response.Response "归档成功"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /dojo/archive [post]
func (c *NoticeEngine) GinHandleArchiveDojo(ctx *gin.Context) {
	var req ArchiveDojoReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	if err := c.DojoService.ArchiveDojo(req.DojoID, req.OperatorUID); err != nil {
		code := response.CodeInternalError
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			code = response.CodePermissionDeny
		case strings.Contains(err.Error(), "不存在"):
			code = response.CodeParamError
		}
		ctx.JSON(http.StatusOK, response.Error(code, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleGetDojo 查询道场
// @Summary 查询道场
// @Description 按 ID 查询道场信息
// @Tags 道场
// @Accept json
// @Produce json
// @Param dojo_id query uint64 true "道场 ID"
// @Success 200 {object} response.Response{data=service.DojoDTO} "道场信息"
// @Failure 400 {object} response.Response "参数错误"
// @Security BearerAuth
// @Router /dojo/info [get]
func (c *NoticeEngine) GinHandleGetDojo(ctx *gin.Context) {
	dojoID, err := strconv.ParseUint(ctx.Query("dojo_id"), 10, 64)
	if err != nil || dojoID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid dojo_id"))
		return
	}

	dojo, err := c.DojoService.GetDojo(dojoID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.Error(response.CodeParamError, err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(dojo))
}
