package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cydxin/notice-sdk/models"
	"gorm.io/gorm"
)

// DojoDTO 道场视图。
type DojoDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	OwnerUID  string    `json:"owner_uid,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DojoService struct {
	*Service
}

func NewDojoService(s *Service) *DojoService {
	return &DojoService{Service: s}
}

// CreateDojo 创建道场。
func (s *DojoService) CreateDojo(name, ownerUID string) (*DojoDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("道场名称不能为空")
	}

	d := &models.Dojo{
		Name:     name,
		Status:   models.DojoStatusActive,
		OwnerUID: ownerUID,
	}
	if err := s.DB.Create(d).Error; err != nil {
		return nil, err
	}
	return toDojoDTO(d), nil
}

// GetDojo 查道场。
func (s *DojoService) GetDojo(dojoID uint64) (*DojoDTO, error) {
	var d models.Dojo
	if err := s.DB.First(&d, dojoID).Error; err != nil {
		return nil, err
	}
	return toDojoDTO(&d), nil
}

// ArchiveDojo 归档道场。公告与收件箱数据保留，只是不再接受新发布。
func (s *DojoService) ArchiveDojo(dojoID uint64, operatorUID string) error {
	var d models.Dojo
	if err := s.DB.First(&d, dojoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("道场不存在")
		}
		return err
	}
	if d.OwnerUID != "" && d.OwnerUID != operatorUID {
		return ErrPermissionDenied
	}
	return s.DB.Model(&models.Dojo{}).
		Where("id = ?", dojoID).
		Update("status", models.DojoStatusArchived).Error
}

// IsDojoActive 道场是否可用（存在且未归档）。发布前的前置检查。
func (s *DojoService) IsDojoActive(dojoID uint64) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Dojo{}).
		Where("id = ? AND status = ?", dojoID, models.DojoStatusActive).
		Count(&count).Error
	return count > 0, err
}

func toDojoDTO(d *models.Dojo) *DojoDTO {
	return &DojoDTO{
		ID:        d.ID,
		Name:      d.Name,
		Status:    d.Status,
		OwnerUID:  d.OwnerUID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
