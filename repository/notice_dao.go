package repository

import (
	"time"

	"github.com/cydxin/notice-sdk/models"
	"gorm.io/gorm"
)

// NoticeDAO 封装 Notice 相关的数据库操作
//
// 约定：
// - 只做“数据访问”（CRUD/查询封装），不做业务编排（受众校验、扇出、信号等）。
// - 事务边界应由 service 控制；如需在事务中执行，请使用 WithDB(tx)。
type NoticeDAO struct {
	db *gorm.DB
}

func NewNoticeDAO(db *gorm.DB) *NoticeDAO {
	return &NoticeDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *NoticeDAO) WithDB(db *gorm.DB) *NoticeDAO {
	if db == nil {
		return dao
	}
	return &NoticeDAO{db: db}
}

// Create 创建公告
func (dao *NoticeDAO) Create(n *models.Notice) error {
	return dao.db.Create(n).Error
}

// GetByID 按道场+公告 ID 查找公告
func (dao *NoticeDAO) GetByID(dojoID, noticeID uint64) (*models.Notice, error) {
	var n models.Notice
	err := dao.db.Where("dojo_id = ? AND id = ?", dojoID, noticeID).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetByUID 按对外公告 ID 查找公告
func (dao *NoticeDAO) GetByUID(dojoID uint64, noticeUID string) (*models.Notice, error) {
	var n models.Notice
	err := dao.db.Where("dojo_id = ? AND notice_uid = ?", dojoID, noticeUID).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateFields 更新公告字段（调用方保证公告存在）
func (dao *NoticeDAO) UpdateFields(dojoID, noticeID uint64, updates map[string]any) error {
	return dao.db.Model(&models.Notice{}).
		Where("dojo_id = ? AND id = ?", dojoID, noticeID).
		Updates(updates).Error
}

// ListByDojo 馆方视角的公告列表，游标分页（id 倒序，cursor=0 表示第一页）
func (dao *NoticeDAO) ListByDojo(dojoID uint64, status string, cursor uint64, limit int) ([]models.Notice, error) {
	q := dao.db.Model(&models.Notice{}).Where("dojo_id = ?", dojoID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var list []models.Notice
	err := q.Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListBroadcastDeliverable 广播流快照：全员公告里当前可投递的部分。
// 过滤条件与投递窗口一致：status ∈ {sent, scheduled} 且 send_at 不晚于边界。
func (dao *NoticeDAO) ListBroadcastDeliverable(dojoID uint64, boundary time.Time, limit int) ([]models.Notice, error) {
	var list []models.Notice
	err := dao.db.Model(&models.Notice{}).
		Where("dojo_id = ? AND audience_type = ?", dojoID, models.AudienceAll).
		Where("status IN ?", []string{models.NoticeStatusSent, models.NoticeStatusScheduled}).
		Where("send_at <= ?", boundary).
		Order("send_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
