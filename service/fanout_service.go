package service

import (
	"encoding/json"
	"log"

	"github.com/cydxin/notice-sdk/cons"
	"github.com/cydxin/notice-sdk/models"
	"github.com/cydxin/notice-sdk/repository"
)

// 扇出批量写契约，属于对外契约的一部分。
const (
	// MaxBatchOps 存储层单个原子批次的写操作硬上限。
	MaxBatchOps = 500

	// FanoutChunkSize 每个分块的成员数。每人最多两次写
	// （成员占位 + 收件箱 upsert），2*200=400，留出余量不顶到 MaxBatchOps。
	FanoutChunkSize = 200

	// MaxWriteRetries 分块整体失败后，单成员写入的最大重试次数。
	MaxWriteRetries = 3
)

// FanoutResult 一次扇出/对账的结果。
// 部分失败不是 error：公告本体已落库，失败成员记录在 Failed 里，
// 配置了补偿 worker 时会转入异步补偿。
type FanoutResult struct {
	NoticeID  uint64            `json:"notice_id"`
	Delivered []string          `json:"delivered,omitempty"` // 收件箱 upsert 成功的成员
	Removed   []string          `json:"removed,omitempty"`   // 收件箱摘除成功的成员
	Failed    map[string]string `json:"failed,omitempty"`    // uid -> 最后一次失败原因
}

// Partial 是否存在写失败的成员。
func (r *FanoutResult) Partial() bool {
	return len(r.Failed) > 0
}

func (r *FanoutResult) fail(uid string, err error) {
	if r.Failed == nil {
		r.Failed = make(map[string]string)
	}
	r.Failed[uid] = err.Error()
}

// FanoutService 扇出引擎：把公告物化成成员收件箱行，并在受众变更时对账。
// 约定：公告行是事务锚点，由 NoticeService 先行写入；这里的一切都是
// 尽力而为，失败不回滚公告。所有写入以 (dojo_id, member_uid, notice_id)
// 唯一键幂等，重放收敛。
type FanoutService struct {
	*Service

	// chunkSize 测试用的分块覆盖，0 表示 FanoutChunkSize。
	chunkSize int
}

func NewFanoutService(s *Service) *FanoutService {
	return &FanoutService{Service: s}
}

func (s *FanoutService) chunk() int {
	if s.chunkSize > 0 {
		return s.chunkSize
	}
	return FanoutChunkSize
}

// Publish 新公告的首次扇出。
// all 受众不物化收件箱（成员端走广播流），直接返回空结果。
func (s *FanoutService) Publish(n *models.Notice, aud Audience) *FanoutResult {
	res := &FanoutResult{NoticeID: n.ID}
	target := aud.MaterializedUIDs()
	if len(target) == 0 {
		return res
	}
	s.upsertMany(n, target, res)
	if res.Partial() {
		log.Printf("notice %d fanout partial failure: %d delivered, %d failed", n.ID, len(res.Delivered), len(res.Failed))
	}
	return res
}

// Reconcile 受众变更对账：以“实际落库的收件箱成员 ∪ 旧受众声明”为基准
// 和新受众做差集。摘除差集里的行，新受众全量刷新镜像。
// 基于实际行做差集让对账可重放：历史残留也会被收敛掉。
// 受众类型切换由同一条路径覆盖：
// - uids → all：target 为空，旧行全部摘除；
// - all → uids：基准为空（或残留），新受众全量落行。
func (s *FanoutService) Reconcile(n *models.Notice, before, after Audience) *FanoutResult {
	res := &FanoutResult{NoticeID: n.ID}

	existing, err := repository.NewInboxDAO(s.DB).ListUIDsByNotice(n.DojoID, n.ID)
	if err != nil {
		// 实际行读不到就退回声明的旧受众，对账照常进行
		log.Printf("notice %d reconcile: list inbox uids failed: %v", n.ID, err)
		existing = nil
	}
	existing = append(existing, before.MaterializedUIDs()...)

	target := after.MaterializedUIDs()
	removed, added, kept := DiffAudience(existing, target)

	s.removeMany(n, removed, res)
	s.upsertMany(n, append(added, kept...), res)

	if res.Partial() {
		log.Printf("notice %d reconcile partial failure: %d delivered, %d removed, %d failed",
			n.ID, len(res.Delivered), len(res.Removed), len(res.Failed))
	}
	return res
}

// upsertMany 分块 create-or-merge。分块整体失败时逐人重试。
func (s *FanoutService) upsertMany(n *models.Notice, uids []string, res *FanoutResult) {
	uids = normalizeUIDs(uids)
	size := s.chunk()
	for start := 0; start < len(uids); start += size {
		end := start + size
		if end > len(uids) {
			end = len(uids)
		}
		chunk := uids[start:end]

		if err := s.deliverChunk(n, chunk); err != nil {
			log.Printf("notice %d fanout chunk of %d failed, retrying individually: %v", n.ID, len(chunk), err)
			for _, uid := range chunk {
				s.retryUpsertOne(n, uid, res)
			}
			continue
		}
		res.Delivered = append(res.Delivered, chunk...)
		for _, uid := range chunk {
			s.signalInbox(n.DojoID, uid, n.ID, cons.EventInboxDelivered)
		}
	}
}

// deliverChunk 单个分块的原子批次：先补成员占位行，再落收件箱行，同一事务。
func (s *FanoutService) deliverChunk(n *models.Notice, uids []string) error {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := repository.NewMemberDAO(s.DB).WithDB(tx).EnsurePendingBulk(n.DojoID, uids); err != nil {
		return err
	}
	if err := repository.NewInboxDAO(s.DB).WithDB(tx).UpsertBatch(buildInboxRows(n, uids)); err != nil {
		return err
	}
	return tx.Commit().Error
}

// retryUpsertOne 逐人重试，写入本身幂等，打满次数后记入 Failed 并转补偿。
func (s *FanoutService) retryUpsertOne(n *models.Notice, uid string, res *FanoutResult) {
	var lastErr error
	for attempt := 1; attempt <= MaxWriteRetries; attempt++ {
		if err := s.deliverOne(n, uid); err != nil {
			lastErr = err
			continue
		}
		res.Delivered = append(res.Delivered, uid)
		s.signalInbox(n.DojoID, uid, n.ID, cons.EventInboxDelivered)
		return
	}
	res.fail(uid, lastErr)
	s.enqueueRetry(n, uid, cons.FanoutOpUpsert)
}

func (s *FanoutService) deliverOne(n *models.Notice, uid string) error {
	if err := repository.NewMemberDAO(s.DB).EnsurePendingBulk(n.DojoID, []string{uid}); err != nil {
		return err
	}
	return repository.NewInboxDAO(s.DB).UpsertOne(buildInboxRows(n, []string{uid})[0])
}

// removeMany 分块摘除。分块整体失败时逐人重试。
func (s *FanoutService) removeMany(n *models.Notice, uids []string, res *FanoutResult) {
	uids = normalizeUIDs(uids)
	size := s.chunk()
	dao := repository.NewInboxDAO(s.DB)
	for start := 0; start < len(uids); start += size {
		end := start + size
		if end > len(uids) {
			end = len(uids)
		}
		chunk := uids[start:end]

		if err := dao.DeleteByUIDs(n.DojoID, n.ID, chunk); err != nil {
			log.Printf("notice %d inbox removal chunk of %d failed, retrying individually: %v", n.ID, len(chunk), err)
			for _, uid := range chunk {
				s.retryRemoveOne(n, uid, res)
			}
			continue
		}
		res.Removed = append(res.Removed, chunk...)
		for _, uid := range chunk {
			s.signalInbox(n.DojoID, uid, n.ID, cons.EventInboxRevoked)
		}
	}
}

func (s *FanoutService) retryRemoveOne(n *models.Notice, uid string, res *FanoutResult) {
	dao := repository.NewInboxDAO(s.DB)
	var lastErr error
	for attempt := 1; attempt <= MaxWriteRetries; attempt++ {
		if err := dao.DeleteOne(n.DojoID, n.ID, uid); err != nil {
			lastErr = err
			continue
		}
		res.Removed = append(res.Removed, uid)
		s.signalInbox(n.DojoID, uid, n.ID, cons.EventInboxRevoked)
		return
	}
	res.fail(uid, lastErr)
	s.enqueueRetry(n, uid, cons.FanoutOpDelete)
}

func (s *FanoutService) enqueueRetry(n *models.Notice, uid, op string) {
	if s.RetryEnqueue == nil {
		return
	}
	s.RetryEnqueue(&RetryTask{
		DojoID:    n.DojoID,
		NoticeID:  n.ID,
		MemberUID: uid,
		Op:        op,
	})
}

// signalInbox 投递/摘除成功后的变更信号（尽力而为）。
// redis 信号驱动活跃订阅重查；WsNotifier 是进程内直推的轻量提醒，
// 没配 redis 时在线成员至少还能收到“有变更”的提示。
func (s *FanoutService) signalInbox(dojoID uint64, uid string, noticeID uint64, event string) {
	publishSignal(s.RDB, inboxChannel(s.TablePrefix, dojoID, uid), event, noticeID)
	if s.WsNotifier != nil {
		payload, err := json.Marshal(changeSignal{Event: event, NoticeID: noticeID})
		if err != nil {
			return
		}
		s.WsNotifier(dojoID, uid, payload)
	}
}

func buildInboxRows(n *models.Notice, uids []string) []*models.NoticeInbox {
	rows := make([]*models.NoticeInbox, 0, len(uids))
	for _, uid := range uids {
		row := &models.NoticeInbox{
			DojoID:    n.DojoID,
			MemberUID: uid,
			NoticeID:  n.ID,
		}
		row.MirrorFrom(n)
		rows = append(rows, row)
	}
	return rows
}
