package service

import (
	"time"

	"github.com/cydxin/notice-sdk/cons"
	"github.com/cydxin/notice-sdk/models"
)

// 投递窗口常量，属于对外契约的一部分。
const (
	// ClockSkewTolerance 端侧时钟容差。查询边界取 now+容差，
	// 服务端盖的 send_at 略超前于端侧时钟时，公告不会闪现又消失。
	ClockSkewTolerance = 2 * time.Minute

	// DefaultDisplayWindow 未填结束时间时的默认展示窗口。
	DefaultDisplayWindow = 30 * 24 * time.Hour
)

// DeliveryBoundary 计算投递窗口上界。
func DeliveryBoundary(now time.Time) time.Time {
	return now.Add(ClockSkewTolerance)
}

// IsDeliverable 投递判定：status ∈ {sent, scheduled} 且 send_at 不晚于边界。
// 边界取闭区间：send_at 恰好等于边界可投递，晚 1ms 即不可投递。
// 草稿/归档永远不可投递，展示分类管不到这里。
func IsDeliverable(status string, sendAt, boundary time.Time) bool {
	if status != models.NoticeStatusSent && status != models.NoticeStatusScheduled {
		return false
	}
	return !sendAt.After(boundary)
}

// DeliverableNow 以本地时钟判定，内部套用时钟容差后的边界。
func DeliverableNow(status string, sendAt, now time.Time) bool {
	return IsDeliverable(status, sendAt, DeliveryBoundary(now))
}

// ClassifyDisplayState 展示状态分类，仅供 UI 使用，绝不参与投递过滤：
// - now 早于 start_time → upcoming
// - start_time ≤ now ≤ end_time 且 status ∈ {sent, scheduled} → active
// - 其余 → complete
// end_time 缺省按 start_time + 默认展示窗口推算。
func ClassifyDisplayState(status string, startTime time.Time, endTime *time.Time, now time.Time) string {
	end := DisplayEndTime(startTime, endTime)
	if now.Before(startTime) {
		return cons.DisplayUpcoming
	}
	if !now.After(end) && (status == models.NoticeStatusSent || status == models.NoticeStatusScheduled) {
		return cons.DisplayActive
	}
	return cons.DisplayComplete
}

// DisplayEndTime 展示结束时间，未填时按默认窗口推算。
func DisplayEndTime(startTime time.Time, endTime *time.Time) time.Time {
	if endTime != nil && !endTime.IsZero() {
		return *endTime
	}
	return startTime.Add(DefaultDisplayWindow)
}
