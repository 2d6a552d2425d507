package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	prefix = "dojo_"
)

// 道场状态
const (
	DojoStatusActive   = "active"
	DojoStatusArchived = "archived"
)

// Dojo 道场（租户）表
// 公告、成员、收件箱全部挂在某个道场之下。
type Dojo struct {
	ID     uint64 `gorm:"primarykey"`
	Name   string `gorm:"size:100;not null"`      // 道场名称
	Status string `gorm:"size:16;default:active"` // 状态: active-正常 archived-归档
	// OwnerUID 负责人（馆长）对外 ID，账号体系由宿主平台维护
	OwnerUID  string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Dojo) TableName() string {
	return prefix + "dojo"
}

// 成员状态
const (
	// MemberStatusPending 占位成员：扇出先于成员资料建档时落下的最小行，
	// 等宿主平台补全资料后转为 active。
	MemberStatusPending = "pending"
	MemberStatusActive  = "active"
	MemberStatusLeft    = "left"
)

// Member 道场成员表
// MemberUID 是宿主平台的账号 ID（对外字符串 ID），同一道场内唯一。
// 扇出只会用 DoNothing 方式补占位行，绝不覆盖已有成员数据。
type Member struct {
	ID        uint64 `gorm:"primarykey"`
	DojoID    uint64 `gorm:"index:idx_dojo_member,unique;not null"`         // 道场 ID
	MemberUID string `gorm:"size:64;index:idx_dojo_member,unique;not null"` // 宿主平台账号 ID
	Nickname  string `gorm:"size:100"`                                      // 昵称
	Status    string `gorm:"size:16;default:pending;index"`                 // 状态: pending-占位 active-正常 left-已退
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Member) TableName() string {
	return prefix + "member"
}
