package service

import (
	"testing"
	"time"

	"github.com/cydxin/notice-sdk/cons"
	"github.com/cydxin/notice-sdk/models"
)

func TestIsDeliverable(t *testing.T) {
	boundary := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("BoundaryInclusive", func(t *testing.T) {
		// send_at 恰好等于边界 → 可投递
		if !IsDeliverable(models.NoticeStatusSent, boundary, boundary) {
			t.Error("send_at == boundary should be deliverable")
		}
		// 晚 1ms → 不可投递
		if IsDeliverable(models.NoticeStatusSent, boundary.Add(time.Millisecond), boundary) {
			t.Error("send_at just past boundary should not be deliverable")
		}
		// 早于边界任意时长 → 可投递
		if !IsDeliverable(models.NoticeStatusSent, boundary.Add(-ClockSkewTolerance-time.Millisecond), boundary) {
			t.Error("send_at well before boundary should be deliverable")
		}
	})

	t.Run("StatusFilter", func(t *testing.T) {
		past := boundary.Add(-time.Hour)
		cases := []struct {
			status string
			want   bool
		}{
			{models.NoticeStatusSent, true},
			{models.NoticeStatusScheduled, true},
			{models.NoticeStatusDraft, false},
			{models.NoticeStatusArchived, false},
		}
		for _, c := range cases {
			if got := IsDeliverable(c.status, past, boundary); got != c.want {
				t.Errorf("IsDeliverable(%s) = %v, want %v", c.status, got, c.want)
			}
		}
	})
}

// 时钟容差：服务端盖的 send_at 略超前端侧时钟时仍立即可见，超出容差则不可见
func TestDeliverableNow(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	if !DeliverableNow(models.NoticeStatusSent, now.Add(time.Minute), now) {
		t.Error("send_at 1m ahead of local clock should be absorbed by skew tolerance")
	}
	if DeliverableNow(models.NoticeStatusSent, now.Add(3*time.Minute), now) {
		t.Error("send_at 3m ahead of local clock should not be deliverable")
	}
	if !DeliverableNow(models.NoticeStatusScheduled, now.Add(ClockSkewTolerance), now) {
		t.Error("send_at exactly at the tolerance edge should be deliverable")
	}
}

func TestClassifyDisplayState(t *testing.T) {
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)

	t.Run("Upcoming", func(t *testing.T) {
		now := start.Add(-time.Hour)
		if got := ClassifyDisplayState(models.NoticeStatusScheduled, start, &end, now); got != cons.DisplayUpcoming {
			t.Errorf("got %s, want upcoming", got)
		}
	})

	t.Run("Active", func(t *testing.T) {
		now := start.Add(time.Hour)
		if got := ClassifyDisplayState(models.NoticeStatusSent, start, &end, now); got != cons.DisplayActive {
			t.Errorf("got %s, want active", got)
		}
		// 边界：now == end_time 仍算 active
		if got := ClassifyDisplayState(models.NoticeStatusSent, start, &end, end); got != cons.DisplayActive {
			t.Errorf("got %s at end boundary, want active", got)
		}
	})

	t.Run("CompleteAfterEnd", func(t *testing.T) {
		now := end.Add(time.Minute)
		if got := ClassifyDisplayState(models.NoticeStatusSent, start, &end, now); got != cons.DisplayComplete {
			t.Errorf("got %s, want complete", got)
		}
	})

	t.Run("ArchivedIsComplete", func(t *testing.T) {
		now := start.Add(time.Hour)
		if got := ClassifyDisplayState(models.NoticeStatusArchived, start, &end, now); got != cons.DisplayComplete {
			t.Errorf("got %s, want complete", got)
		}
	})

	// 未填 end_time：默认展示窗口 30 天
	t.Run("DefaultWindow", func(t *testing.T) {
		inside := start.Add(DefaultDisplayWindow - time.Hour)
		if got := ClassifyDisplayState(models.NoticeStatusSent, start, nil, inside); got != cons.DisplayActive {
			t.Errorf("got %s inside default window, want active", got)
		}
		outside := start.Add(DefaultDisplayWindow + time.Hour)
		if got := ClassifyDisplayState(models.NoticeStatusSent, start, nil, outside); got != cons.DisplayComplete {
			t.Errorf("got %s outside default window, want complete", got)
		}
	})
}
