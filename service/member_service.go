package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/cydxin/notice-sdk/models"
	"github.com/cydxin/notice-sdk/repository"
	"gorm.io/gorm"
)

// MemberDTO 成员视图。
type MemberDTO struct {
	ID        uint64    `json:"id"`
	DojoID    uint64    `json:"dojo_id"`
	MemberUID string    `json:"member_uid"`
	Nickname  string    `json:"nickname,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MemberService struct {
	*Service
}

func NewMemberService(s *Service) *MemberService {
	return &MemberService{Service: s}
}

// JoinDojo 成员加入道场。
// 扇出可能先一步落了 pending 占位行，这里直接转正并补昵称；没有就新建。
func (s *MemberService) JoinDojo(dojoID uint64, memberUID, nickname string) (*MemberDTO, error) {
	if memberUID == "" {
		return nil, fmt.Errorf("member uid 不能为空")
	}

	dao := repository.NewMemberDAO(s.DB)
	m, err := dao.GetByUID(dojoID, memberUID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		m = &models.Member{
			DojoID:    dojoID,
			MemberUID: memberUID,
			Nickname:  nickname,
			Status:    models.MemberStatusActive,
		}
		if err := s.DB.Create(m).Error; err != nil {
			return nil, err
		}
		return toMemberDTO(m), nil
	}

	updates := map[string]any{"status": models.MemberStatusActive}
	if nickname != "" {
		updates["nickname"] = nickname
	}
	if err := s.DB.Model(&models.Member{}).Where("id = ?", m.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	m.Status = models.MemberStatusActive
	if nickname != "" {
		m.Nickname = nickname
	}
	return toMemberDTO(m), nil
}

// LeaveDojo 成员离开道场。只改状态不删行：收件箱行保留，历史可回溯，
// 重新加入时转正即可。
func (s *MemberService) LeaveDojo(dojoID uint64, memberUID string) error {
	result := s.DB.Model(&models.Member{}).
		Where("dojo_id = ? AND member_uid = ? AND status <> ?", dojoID, memberUID, models.MemberStatusLeft).
		Update("status", models.MemberStatusLeft)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("成员不存在或已离开")
	}
	return nil
}

// GetMember 查单个成员。
func (s *MemberService) GetMember(dojoID uint64, memberUID string) (*MemberDTO, error) {
	m, err := repository.NewMemberDAO(s.DB).GetByUID(dojoID, memberUID)
	if err != nil {
		return nil, err
	}
	return toMemberDTO(m), nil
}

// IsActiveMember 检查成员是否在馆（active）。
func (s *MemberService) IsActiveMember(dojoID uint64, memberUID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Member{}).
		Where("dojo_id = ? AND member_uid = ? AND status = ?", dojoID, memberUID, models.MemberStatusActive).
		Count(&count).Error
	return count > 0, err
}

// ListMembers 成员列表，可按状态过滤。
func (s *MemberService) ListMembers(dojoID uint64, status string, limit int) ([]MemberDTO, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	list, err := repository.NewMemberDAO(s.DB).ListByDojo(dojoID, status, limit)
	if err != nil {
		return nil, err
	}
	out := make([]MemberDTO, 0, len(list))
	for i := range list {
		out = append(out, *toMemberDTO(&list[i]))
	}
	return out, nil
}

func toMemberDTO(m *models.Member) *MemberDTO {
	return &MemberDTO{
		ID:        m.ID,
		DojoID:    m.DojoID,
		MemberUID: m.MemberUID,
		Nickname:  m.Nickname,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
