package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 公告类别
const (
	NoticeTypeNotice = "notice" // 公告
	NoticeTypeMemo   = "memo"   // 便签/备忘
)

// 受众类型
const (
	AudienceAll  = "all"  // 全体成员，走广播流，不落收件箱
	AudienceUIDs = "uids" // 指定成员，逐人落收件箱
)

// 公告状态
const (
	NoticeStatusDraft     = "draft"
	NoticeStatusScheduled = "scheduled"
	NoticeStatusSent      = "sent"
	NoticeStatusArchived  = "archived"
)

// Notice 道场公告表（事件只存一份）
// 用于：
// - 广播流（audience_type=all 时成员端直接订阅本表）
// - 指定受众时作为扇出的事实来源，收件箱行只镜像展示字段
//
// 公告行是发布/更新操作的事务锚点：公告写失败则整个操作失败，
// 扇出失败不回滚公告。
type Notice struct {
	ID        uint64 `gorm:"primarykey"`
	NoticeUID string `gorm:"size:36;uniqueIndex;not null"`            // 对外公告 ID（UUID，BeforeCreate 自动生成）
	DojoID    uint64 `gorm:"index:idx_dojo_send,priority:1;not null"` // 道场 ID

	Type  string `gorm:"size:16;default:notice;not null"` // 类别: notice-公告 memo-便签
	Title string `gorm:"size:200;not null"`               // 标题，不允许为空
	Body  string `gorm:"type:text"`                       // 正文

	AudienceType string         `gorm:"size:8;default:all;not null"` // 受众类型: all / uids
	AudienceUIDs datatypes.JSON `gorm:"type:json"`                   // 受众 uid 列表，仅 uids 时有值

	StartTime time.Time  // 展示开始时间
	EndTime   *time.Time // 展示结束时间，空则按默认展示窗口推算
	// SendAt 投递时间，未填时发布流程会回填为 StartTime；投递窗口按它过滤
	SendAt time.Time `gorm:"index:idx_dojo_send,priority:2;not null"`

	Status      string         `gorm:"size:16;default:draft;index;not null"` // 状态: draft/scheduled/sent/archived
	Attachments datatypes.JSON `gorm:"type:json"`                            // 附件元数据列表 [{name,size,type,url}]

	CreatedBy string `gorm:"size:64"` // 发布人（馆方人员）对外 ID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Notice) TableName() string {
	return prefix + "notice"
}

// BeforeCreate 自动生成对外公告 ID，已手动指定时不覆盖。
func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.NoticeUID == "" {
		n.NoticeUID = uuid.New().String()
	}
	return nil
}
