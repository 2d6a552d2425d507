package repository

import (
	"time"

	"github.com/cydxin/notice-sdk/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InboxDAO 封装 NoticeInbox（成员收件箱）相关的数据库操作
//
// 约定：
//   - 收件箱行只应由扇出引擎经由本 DAO 写入；
//   - 所有写入都以唯一键 (dojo_id, member_uid, notice_id) 幂等：
//     upsert 重放刷新镜像字段，delete 重放无副作用；
//   - 分块与重试策略由 service 控制，这里只执行给定切片。
type InboxDAO struct {
	db *gorm.DB
}

func NewInboxDAO(db *gorm.DB) *InboxDAO {
	return &InboxDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *InboxDAO) WithDB(db *gorm.DB) *InboxDAO {
	if db == nil {
		return dao
	}
	return &InboxDAO{db: db}
}

// UpsertBatch 批量 create-or-merge 收件箱行：已存在时只刷新镜像列。
func (dao *InboxDAO) UpsertBatch(rows []*models.NoticeInbox) error {
	if len(rows) == 0 {
		return nil
	}
	return dao.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "dojo_id"}, {Name: "member_uid"}, {Name: "notice_id"},
		},
		DoUpdates: clause.AssignmentColumns(models.InboxMirrorColumns()),
	}).Create(&rows).Error
}

// UpsertOne 单行 create-or-merge，供分块整体失败后的逐人重试使用。
func (dao *InboxDAO) UpsertOne(row *models.NoticeInbox) error {
	return dao.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "dojo_id"}, {Name: "member_uid"}, {Name: "notice_id"},
		},
		DoUpdates: clause.AssignmentColumns(models.InboxMirrorColumns()),
	}).Create(row).Error
}

// DeleteByUIDs 删除指定成员们的某条公告收件箱行（对账摘除）。
func (dao *InboxDAO) DeleteByUIDs(dojoID, noticeID uint64, uids []string) error {
	if len(uids) == 0 {
		return nil
	}
	return dao.db.
		Where("dojo_id = ? AND notice_id = ? AND member_uid IN ?", dojoID, noticeID, uids).
		Delete(&models.NoticeInbox{}).Error
}

// DeleteOne 删除单行，供逐人重试使用。
func (dao *InboxDAO) DeleteOne(dojoID, noticeID uint64, memberUID string) error {
	return dao.db.
		Where("dojo_id = ? AND notice_id = ? AND member_uid = ?", dojoID, noticeID, memberUID).
		Delete(&models.NoticeInbox{}).Error
}

// Get 读取某成员某公告的收件箱行（权限降级兜底读取）
func (dao *InboxDAO) Get(dojoID uint64, memberUID string, noticeID uint64) (*models.NoticeInbox, error) {
	var e models.NoticeInbox
	err := dao.db.
		Where("dojo_id = ? AND member_uid = ? AND notice_id = ?", dojoID, memberUID, noticeID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListUIDsByNotice 查询某公告当前实际落了收件箱的成员 uid。
// 对账用它和新受众做差集，重放对账也能把历史残留收敛掉。
func (dao *InboxDAO) ListUIDsByNotice(dojoID, noticeID uint64) ([]string, error) {
	var uids []string
	err := dao.db.Model(&models.NoticeInbox{}).
		Where("dojo_id = ? AND notice_id = ?", dojoID, noticeID).
		Pluck("member_uid", &uids).Error
	return uids, err
}

// ListDeliverableByMember 个人流快照：成员收件箱里当前可投递的部分。
// 过滤条件与投递窗口一致：status ∈ {sent, scheduled} 且 send_at 不晚于边界。
func (dao *InboxDAO) ListDeliverableByMember(dojoID uint64, memberUID string, boundary time.Time, limit int) ([]models.NoticeInbox, error) {
	var list []models.NoticeInbox
	err := dao.db.Model(&models.NoticeInbox{}).
		Where("dojo_id = ? AND member_uid = ?", dojoID, memberUID).
		Where("status IN ?", []string{models.NoticeStatusSent, models.NoticeStatusScheduled}).
		Where("send_at <= ?", boundary).
		Order("send_at DESC, notice_id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
