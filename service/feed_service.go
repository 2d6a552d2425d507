package service

import (
	"sort"
	"sync"
	"time"

	"github.com/cydxin/notice-sdk/cons"
	"github.com/cydxin/notice-sdk/models"
	"github.com/cydxin/notice-sdk/repository"
)

const (
	// DefaultFeedLimit 聚合流默认条数。
	DefaultFeedLimit = 100

	// MaxFeedLimit 聚合流单次条数上限。
	MaxFeedLimit = 200
)

func clampFeedLimit(limit int) int {
	if limit <= 0 {
		return DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		return MaxFeedLimit
	}
	return limit
}

// FeedItem 聚合流里的一条公告摘要。正文和附件不进流，成员点开后走详情接口。
type FeedItem struct {
	NoticeID  uint64     `json:"notice_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Display   string     `json:"display"` // upcoming / active / complete
	Source    string     `json:"source"`  // broadcast / inbox
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	SendAt    time.Time  `json:"send_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FeedSnapshot 某个成员在某个道场的完整聚合快照。
type FeedSnapshot struct {
	DojoID    uint64     `json:"dojo_id"`
	MemberUID string     `json:"member_uid"`
	Items     []FeedItem `json:"items"`
}

// FeedService 把广播流（全员公告）和个人收件箱流合并成一条成员视角的流。
// 两路都是完整快照，所以合并无状态可言：按公告去重、updated_at 新者胜、
// send_at 倒序截断。首个快照要等两路都就绪才发出，避免先给半截数据。
type FeedService struct {
	*Service

	limit int

	// 订阅入口留成字段，单测不起 redis 就能驱动合并逻辑
	subscribeBroadcast func(dojoID uint64, limit int, onChange func([]models.Notice)) (CancelFunc, error)
	subscribeInbox     func(dojoID uint64, memberUID string, limit int, onChange func([]models.NoticeInbox)) (CancelFunc, error)
}

func NewFeedService(s *Service, limit int) *FeedService {
	sub := s.Subs
	if sub == nil {
		sub = NewSubscriptionService(s)
	}
	return &FeedService{
		Service:            s,
		limit:              clampFeedLimit(limit),
		subscribeBroadcast: sub.SubscribeBroadcast,
		subscribeInbox:     sub.SubscribeInbox,
	}
}

// Subscribe 订阅成员的聚合流。每次两路任一更新都会重算并回调完整快照。
// 返回的 CancelFunc 语义同单路订阅：返回后不再有回调，回调内不得调用。
func (s *FeedService) Subscribe(dojoID uint64, memberUID string, onSnapshot func(FeedSnapshot)) (CancelFunc, error) {
	m := &feedMerger{
		dojoID:     dojoID,
		memberUID:  memberUID,
		limit:      s.limit,
		onSnapshot: onSnapshot,
	}

	cancelBroadcast, err := s.subscribeBroadcast(dojoID, s.limit, m.onBroadcast)
	if err != nil {
		return nil, err
	}
	cancelInbox, err := s.subscribeInbox(dojoID, memberUID, s.limit, m.onInbox)
	if err != nil {
		cancelBroadcast()
		return nil, err
	}
	return func() {
		cancelBroadcast()
		cancelInbox()
	}, nil
}

// ListFeed 一次性聚合快照，给 HTTP 拉取和 WS 的手动刷新用。
func (s *FeedService) ListFeed(dojoID uint64, memberUID string) (*FeedSnapshot, error) {
	boundary := DeliveryBoundary(time.Now())

	notices, err := repository.NewNoticeDAO(s.DB).ListBroadcastDeliverable(dojoID, boundary, s.limit)
	if err != nil {
		return nil, err
	}
	rows, err := repository.NewInboxDAO(s.DB).ListDeliverableByMember(dojoID, memberUID, boundary, s.limit)
	if err != nil {
		return nil, err
	}

	broadcast := make([]FeedItem, 0, len(notices))
	for i := range notices {
		broadcast = append(broadcast, feedItemFromNotice(&notices[i]))
	}
	inbox := make([]FeedItem, 0, len(rows))
	for i := range rows {
		inbox = append(inbox, feedItemFromInbox(&rows[i]))
	}
	return &FeedSnapshot{
		DojoID:    dojoID,
		MemberUID: memberUID,
		Items:     mergeFeedItems(broadcast, inbox, s.limit),
	}, nil
}

// feedMerger 双路快照的合并点。bReady/iReady 挡住首个快照，
// 之后任一路刷新都触发一次完整重算。
type feedMerger struct {
	mu         sync.Mutex
	dojoID     uint64
	memberUID  string
	limit      int
	onSnapshot func(FeedSnapshot)

	broadcast []FeedItem
	inbox     []FeedItem
	bReady    bool
	iReady    bool
}

func (m *feedMerger) onBroadcast(rows []models.Notice) {
	items := make([]FeedItem, 0, len(rows))
	for i := range rows {
		items = append(items, feedItemFromNotice(&rows[i]))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcast = items
	m.bReady = true
	m.emitLocked()
}

func (m *feedMerger) onInbox(rows []models.NoticeInbox) {
	items := make([]FeedItem, 0, len(rows))
	for i := range rows {
		items = append(items, feedItemFromInbox(&rows[i]))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = items
	m.iReady = true
	m.emitLocked()
}

func (m *feedMerger) emitLocked() {
	if !m.bReady || !m.iReady {
		return
	}
	m.onSnapshot(FeedSnapshot{
		DojoID:    m.dojoID,
		MemberUID: m.memberUID,
		Items:     mergeFeedItems(m.broadcast, m.inbox, m.limit),
	})
}

// mergeFeedItems 按公告去重（updated_at 新者胜），send_at 倒序，同刻按 id 倒序。
// 受众切换的过渡期里同一公告可能两路都在，去重保证成员只看到一条。
func mergeFeedItems(broadcast, inbox []FeedItem, limit int) []FeedItem {
	byID := make(map[uint64]FeedItem, len(broadcast)+len(inbox))
	for _, it := range broadcast {
		byID[it.NoticeID] = it
	}
	for _, it := range inbox {
		if old, ok := byID[it.NoticeID]; ok && !it.UpdatedAt.After(old.UpdatedAt) {
			continue
		}
		byID[it.NoticeID] = it
	}

	items := make([]FeedItem, 0, len(byID))
	for _, it := range byID {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SendAt.Equal(items[j].SendAt) {
			return items[i].SendAt.After(items[j].SendAt)
		}
		return items[i].NoticeID > items[j].NoticeID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func feedItemFromNotice(n *models.Notice) FeedItem {
	return FeedItem{
		NoticeID:  n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Status:    n.Status,
		Display:   ClassifyDisplayState(n.Status, n.StartTime, n.EndTime, time.Now()),
		Source:    cons.FeedSourceBroadcast,
		StartTime: n.StartTime,
		EndTime:   n.EndTime,
		SendAt:    n.SendAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func feedItemFromInbox(row *models.NoticeInbox) FeedItem {
	return FeedItem{
		NoticeID:  row.NoticeID,
		Type:      row.Type,
		Title:     row.Title,
		Status:    row.Status,
		Display:   ClassifyDisplayState(row.Status, row.StartTime, row.EndTime, time.Now()),
		Source:    cons.FeedSourceInbox,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		SendAt:    row.SendAt,
		UpdatedAt: row.UpdatedAt,
	}
}
