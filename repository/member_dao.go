package repository

import (
	"github.com/cydxin/notice-sdk/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberDAO 封装 Member（道场成员）相关的数据库操作
//
// 约定：
// - 扇出前的“先补父文档”在这里完成：对缺失的成员落 pending 占位行；
// - 占位写入用 DoNothing，绝不覆盖已有成员行；
// - 事务中使用请走 WithDB(tx)。
type MemberDAO struct {
	db *gorm.DB
}

func NewMemberDAO(db *gorm.DB) *MemberDAO {
	return &MemberDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *MemberDAO) WithDB(db *gorm.DB) *MemberDAO {
	if db == nil {
		return dao
	}
	return &MemberDAO{db: db}
}

// EnsurePendingBulk 批量确保这些 uid 的成员行存在；缺失的落 pending 占位。
// 幂等：已存在的成员（无论什么状态）原样保留。
func (dao *MemberDAO) EnsurePendingBulk(dojoID uint64, uids []string) error {
	if dojoID == 0 || len(uids) == 0 {
		return nil
	}

	// 去重
	seen := make(map[string]struct{}, len(uids))
	rows := make([]*models.Member, 0, len(uids))
	for _, uid := range uids {
		if uid == "" {
			continue
		}
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		rows = append(rows, &models.Member{
			DojoID:    dojoID,
			MemberUID: uid,
			Status:    models.MemberStatusPending,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	return dao.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// GetByUID 查找某道场的成员
func (dao *MemberDAO) GetByUID(dojoID uint64, memberUID string) (*models.Member, error) {
	var m models.Member
	err := dao.db.Where("dojo_id = ? AND member_uid = ?", dojoID, memberUID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListUIDs 列出道场全部成员 uid（可按状态过滤，status 为空则不过滤）
func (dao *MemberDAO) ListUIDs(dojoID uint64, status string) ([]string, error) {
	q := dao.db.Model(&models.Member{}).Where("dojo_id = ?", dojoID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var uids []string
	err := q.Order("id ASC").Pluck("member_uid", &uids).Error
	return uids, err
}

// ListByDojo 列出道场成员
func (dao *MemberDAO) ListByDojo(dojoID uint64, status string, limit int) ([]models.Member, error) {
	q := dao.db.Model(&models.Member{}).Where("dojo_id = ?", dojoID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Member
	err := q.Order("id ASC").Limit(limit).Find(&list).Error
	return list, err
}
