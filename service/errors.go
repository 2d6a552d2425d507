package service

import "errors"

// 对外错误分类。调用方用 errors.Is 判定，handler 层映射到业务状态码。
var (
	// ErrInvalidAudience 受众声明不合法：未知 audience_type，或 uids 类型缺少列表。
	// 发布/更新在任何写入发生前就会以它失败。
	ErrInvalidAudience = errors.New("invalid audience declaration")

	// ErrInvalidNoticeInput 公告字段校验失败（标题、类型、状态等）。
	ErrInvalidNoticeInput = errors.New("invalid notice input")

	// ErrNoticeNotFound 公告不存在（与权限拒绝是两类错误，不可混用）。
	ErrNoticeNotFound = errors.New("notice not found")

	// ErrPermissionDenied 鉴权层拒绝了成员对公告的直读。
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDeliveryUnavailable 直读被拒且收件箱兜底也读不到：
	// 公告存在但此刻对该成员不可达。
	ErrDeliveryUnavailable = errors.New("notice delivery unavailable")
)
