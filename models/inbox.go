package models

import (
	"time"
)

// NoticeInbox 成员收件箱表（每个定向受众成员一行）
// 唯一索引 (dojo_id, member_uid, notice_id) 用于幂等：扇出/对账重放
// 同一条投递永远收敛到同一行。
//
// 本表只由扇出引擎写入，镜像公告的展示字段（不含正文/附件），
// 供成员端个人流排序与窗口过滤，以及权限降级时的兜底读取。
// 公告更新后到对账完成前，镜像字段允许短暂滞后。
type NoticeInbox struct {
	ID        uint64 `gorm:"primarykey"`
	DojoID    uint64 `gorm:"index:idx_inbox_key,unique,priority:1;index:idx_member_send,priority:1;not null"`
	MemberUID string `gorm:"size:64;index:idx_inbox_key,unique,priority:2;index:idx_member_send,priority:2;not null"`
	NoticeID  uint64 `gorm:"index:idx_inbox_key,unique,priority:3;not null"`

	// 以下为公告展示字段镜像
	Type      string `gorm:"size:16;not null"`
	Title     string `gorm:"size:200;not null"`
	Status    string `gorm:"size:16;index;not null"`
	StartTime time.Time
	EndTime   *time.Time
	SendAt    time.Time `gorm:"index:idx_member_send,priority:3;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NoticeInbox) TableName() string {
	return prefix + "notice_inbox"
}

// MirrorFrom 将公告的展示字段同步进收件箱行。
func (e *NoticeInbox) MirrorFrom(n *Notice) {
	e.Type = n.Type
	e.Title = n.Title
	e.Status = n.Status
	e.StartTime = n.StartTime
	e.EndTime = n.EndTime
	e.SendAt = n.SendAt
}

// InboxMirrorColumns 对账/扇出 upsert 时需要刷新的镜像列。
func InboxMirrorColumns() []string {
	return []string{"type", "title", "status", "start_time", "end_time", "send_at", "updated_at"}
}
