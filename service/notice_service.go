package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cydxin/notice-sdk/cons"
	"github.com/cydxin/notice-sdk/models"
	"github.com/cydxin/notice-sdk/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TitleMaxLen 公告标题长度上限（字符数）。
const TitleMaxLen = 200

// AttachmentDTO 附件元信息，整体按 JSON 存在公告行里。
type AttachmentDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

// NoticeDTO 公告视图。馆方视角带受众；成员视角不带。
// Degraded 标记镜像兜底视图：正文、附件等主表字段缺失。
type NoticeDTO struct {
	ID           uint64          `json:"id"`
	NoticeUID    string          `json:"notice_uid,omitempty"`
	DojoID       uint64          `json:"dojo_id"`
	Type         string          `json:"type"`
	Title        string          `json:"title"`
	Body         string          `json:"body,omitempty"`
	AudienceType string          `json:"audience_type,omitempty"`
	AudienceUIDs []string        `json:"audience_uids,omitempty"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      *time.Time      `json:"end_time,omitempty"`
	SendAt       time.Time       `json:"send_at"`
	Status       string          `json:"status"`
	Display      string          `json:"display,omitempty"`
	Attachments  []AttachmentDTO `json:"attachments,omitempty"`
	Degraded     bool            `json:"degraded,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PublishNoticeInput 发布公告入参。
// SendAt 不传时取 StartTime；StartTime 不传时取当前时间。
type PublishNoticeInput struct {
	DojoID       uint64
	Type         string
	Title        string
	Body         string
	AudienceType string
	AudienceUIDs []string
	StartTime    time.Time
	EndTime      *time.Time
	SendAt       *time.Time
	Attachments  []AttachmentDTO
	Draft        bool
	CreatedBy    string
}

// UpdateNoticeInput 编辑公告入参，nil 字段不更新。
// 改受众时 AudienceType/AudienceUIDs 一起解释：
// 类型是 uids 则 AudienceUIDs 必须给（给空列表表示清空受众）。
type UpdateNoticeInput struct {
	Title        *string
	Body         *string
	AudienceType *string
	AudienceUIDs *[]string
	StartTime    *time.Time
	EndTime      *time.Time
	SendAt       *time.Time
	Status       *string
	Attachments  *[]AttachmentDTO
}

// ReadGuard 成员读公告详情的准入判断，返回 nil 表示放行。
// 判不过不是终点：调用方还会走收件箱镜像兜底。
type ReadGuard func(n *models.Notice, memberUID string) error

// DefaultMemberReadGuard 默认准入：草稿不可读，投递窗口外不可读，
// 定向公告只有名单内成员可读。道场隔离由查询条件保证，不在这里重复。
func DefaultMemberReadGuard(n *models.Notice, memberUID string) error {
	if n.Status == models.NoticeStatusDraft {
		return ErrPermissionDenied
	}
	if !DeliverableNow(n.Status, n.SendAt, time.Now()) {
		return ErrPermissionDenied
	}
	switch n.AudienceType {
	case models.AudienceAll:
		return nil
	case models.AudienceUIDs:
		for _, uid := range decodeAudienceUIDs(n.AudienceUIDs) {
			if uid == memberUID {
				return nil
			}
		}
		return ErrPermissionDenied
	default:
		return ErrPermissionDenied
	}
}

// NoticeService 公告编排：落公告、扇出、对账、成员读取兜底。
type NoticeService struct {
	*Service

	guard ReadGuard
}

func NewNoticeService(s *Service, guard ReadGuard) *NoticeService {
	if guard == nil {
		guard = DefaultMemberReadGuard
	}
	return &NoticeService{Service: s, guard: guard}
}

func (s *NoticeService) fanoutEngine() *FanoutService {
	if s.Fanout != nil {
		return s.Fanout
	}
	return NewFanoutService(s.Service)
}

// PublishNotice 发布公告。
// 公告行是锚点：落库失败整个操作失败；扇出尽力而为，部分失败记在
// FanoutResult 里返回，不回滚公告。草稿也照常物化收件箱行，
// 投递窗口会把它们挡在所有成员视图之外，转正时只需刷新镜像。
func (s *NoticeService) PublishNotice(input *PublishNoticeInput) (*NoticeDTO, *FanoutResult, error) {
	aud, err := ResolveAudience(input.AudienceType, input.AudienceUIDs)
	if err != nil {
		return nil, nil, err
	}
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, nil, err
	}
	if input.Type != "" && !validNoticeType(input.Type) {
		return nil, nil, fmt.Errorf("%w: unknown notice type %q", ErrInvalidNoticeInput, input.Type)
	}

	now := time.Now()
	startTime := input.StartTime
	if startTime.IsZero() {
		startTime = now
	}
	sendAt := startTime
	if input.SendAt != nil {
		sendAt = *input.SendAt
	}

	status := models.NoticeStatusSent
	if input.Draft {
		status = models.NoticeStatusDraft
	} else if sendAt.After(now) {
		status = models.NoticeStatusScheduled
	}

	noticeType := input.Type
	if noticeType == "" {
		noticeType = models.NoticeTypeNotice
	}

	n := &models.Notice{
		DojoID:       input.DojoID,
		Type:         noticeType,
		Title:        title,
		Body:         input.Body,
		AudienceType: aud.Type,
		AudienceUIDs: encodeAudienceUIDs(aud.UIDs),
		StartTime:    startTime,
		EndTime:      input.EndTime,
		SendAt:       sendAt,
		Status:       status,
		Attachments:  encodeAttachments(input.Attachments),
		CreatedBy:    input.CreatedBy,
	}
	if err := repository.NewNoticeDAO(s.DB).Create(n); err != nil {
		return nil, nil, err
	}

	result := s.fanoutEngine().Publish(n, aud)
	publishSignal(s.RDB, broadcastChannel(s.TablePrefix, n.DojoID), cons.EventNoticePublished, n.ID)

	return s.toNoticeDTO(n, true), result, nil
}

// UpdateNotice 编辑公告并对账受众。
// 和发布同一套约定：主表更新是锚点，镜像对账尽力而为。
func (s *NoticeService) UpdateNotice(dojoID, noticeID uint64, input *UpdateNoticeInput) (*NoticeDTO, *FanoutResult, error) {
	dao := repository.NewNoticeDAO(s.DB)
	n, err := dao.GetByID(dojoID, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoticeNotFound
		}
		return nil, nil, err
	}

	before := Audience{Type: n.AudienceType, UIDs: decodeAudienceUIDs(n.AudienceUIDs)}
	after := before

	updates := make(map[string]any)
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return nil, nil, err
		}
		updates["title"] = title
	}
	if input.Body != nil {
		updates["body"] = *input.Body
	}
	if input.AudienceType != nil || input.AudienceUIDs != nil {
		audType := before.Type
		if input.AudienceType != nil {
			audType = *input.AudienceType
		}
		var uids []string
		if input.AudienceUIDs != nil {
			uids = *input.AudienceUIDs
		} else if audType == before.Type {
			uids = before.UIDs
		}
		after, err = ResolveAudience(audType, uids)
		if err != nil {
			return nil, nil, err
		}
		updates["audience_type"] = after.Type
		updates["audience_uids"] = encodeAudienceUIDs(after.UIDs)
	}
	if input.StartTime != nil {
		updates["start_time"] = *input.StartTime
	}
	if input.EndTime != nil {
		updates["end_time"] = *input.EndTime
	}
	if input.SendAt != nil {
		updates["send_at"] = *input.SendAt
	}
	if input.Status != nil {
		if !validNoticeStatus(*input.Status) {
			return nil, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidNoticeInput, *input.Status)
		}
		updates["status"] = *input.Status
	}
	if input.Attachments != nil {
		updates["attachments"] = encodeAttachments(*input.Attachments)
	}

	if len(updates) > 0 {
		if err := dao.UpdateFields(dojoID, noticeID, updates); err != nil {
			return nil, nil, err
		}
		n, err = dao.GetByID(dojoID, noticeID)
		if err != nil {
			return nil, nil, err
		}
	}

	result := s.fanoutEngine().Reconcile(n, before, after)
	publishSignal(s.RDB, broadcastChannel(s.TablePrefix, dojoID), cons.EventNoticeUpdated, noticeID)

	return s.toNoticeDTO(n, true), result, nil
}

// GetNotice 馆方视角读公告，带受众。
func (s *NoticeService) GetNotice(dojoID, noticeID uint64) (*NoticeDTO, error) {
	n, err := repository.NewNoticeDAO(s.DB).GetByID(dojoID, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}
	return s.toNoticeDTO(n, true), nil
}

// GetNoticeForMember 成员视角读公告详情。
// 主表直读被拒（权限、窗口、查询失败）时兜底读成员自己的收件箱镜像，
// 镜像可投递就给降级视图。两条路都走不通时区分两种失败：
// 确认公告不存在返回 ErrNoticeNotFound，其余一律 ErrDeliveryUnavailable。
func (s *NoticeService) GetNoticeForMember(dojoID uint64, memberUID string, noticeID uint64) (*NoticeDTO, error) {
	n, directErr := repository.NewNoticeDAO(s.DB).GetByID(dojoID, noticeID)
	if directErr == nil {
		if guardErr := s.guard(n, memberUID); guardErr == nil {
			return s.toNoticeDTO(n, false), nil
		}
	}

	row, inboxErr := repository.NewInboxDAO(s.DB).Get(dojoID, memberUID, noticeID)
	if inboxErr == nil && DeliverableNow(row.Status, row.SendAt, time.Now()) {
		return degradedNoticeDTO(row), nil
	}

	if errors.Is(directErr, gorm.ErrRecordNotFound) && errors.Is(inboxErr, gorm.ErrRecordNotFound) {
		return nil, ErrNoticeNotFound
	}
	return nil, ErrDeliveryUnavailable
}

// ListNotices 馆方公告列表，游标分页。返回下一页游标，0 表示没有了。
func (s *NoticeService) ListNotices(dojoID uint64, status string, cursor uint64, limit int) ([]NoticeDTO, uint64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if status != "" && !validNoticeStatus(status) {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidNoticeInput, status)
	}
	list, err := repository.NewNoticeDAO(s.DB).ListByDojo(dojoID, status, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]NoticeDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, *s.toNoticeDTO(&list[i], true))
	}
	var next uint64
	if len(list) == limit {
		next = list[len(list)-1].ID
	}
	return dtos, next, nil
}

func (s *NoticeService) toNoticeDTO(n *models.Notice, withAudience bool) *NoticeDTO {
	dto := &NoticeDTO{
		ID:          n.ID,
		NoticeUID:   n.NoticeUID,
		DojoID:      n.DojoID,
		Type:        n.Type,
		Title:       n.Title,
		Body:        n.Body,
		StartTime:   n.StartTime,
		EndTime:     n.EndTime,
		SendAt:      n.SendAt,
		Status:      n.Status,
		Display:     ClassifyDisplayState(n.Status, n.StartTime, n.EndTime, time.Now()),
		Attachments: decodeAttachments(n.Attachments),
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
	if withAudience {
		dto.AudienceType = n.AudienceType
		dto.AudienceUIDs = decodeAudienceUIDs(n.AudienceUIDs)
	}
	return dto
}

func degradedNoticeDTO(row *models.NoticeInbox) *NoticeDTO {
	return &NoticeDTO{
		ID:        row.NoticeID,
		DojoID:    row.DojoID,
		Type:      row.Type,
		Title:     row.Title,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		SendAt:    row.SendAt,
		Status:    row.Status,
		Display:   ClassifyDisplayState(row.Status, row.StartTime, row.EndTime, time.Now()),
		Degraded:  true,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNoticeInput)
	}
	if len([]rune(title)) > TitleMaxLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidNoticeInput, TitleMaxLen)
	}
	return nil
}

func validNoticeType(t string) bool {
	switch t {
	case models.NoticeTypeNotice, models.NoticeTypeMemo:
		return true
	}
	return false
}

func validNoticeStatus(st string) bool {
	switch st {
	case models.NoticeStatusDraft, models.NoticeStatusScheduled, models.NoticeStatusSent, models.NoticeStatusArchived:
		return true
	}
	return false
}

func encodeAudienceUIDs(uids []string) datatypes.JSON {
	if uids == nil {
		return nil
	}
	data, err := json.Marshal(uids)
	if err != nil {
		return nil
	}
	return data
}

func decodeAudienceUIDs(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var uids []string
	if err := json.Unmarshal(data, &uids); err != nil {
		return nil
	}
	return uids
}

func encodeAttachments(list []AttachmentDTO) datatypes.JSON {
	if len(list) == 0 {
		return nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil
	}
	return data
}

func decodeAttachments(data datatypes.JSON) []AttachmentDTO {
	if len(data) == 0 {
		return nil
	}
	var list []AttachmentDTO
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	return list
}
