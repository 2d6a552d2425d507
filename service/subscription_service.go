package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cydxin/notice-sdk/models"
	"github.com/cydxin/notice-sdk/repository"
	"github.com/go-redis/redis/v8"
)

// 变更信号走 redis pub/sub。信号只说“这里变了”，不携带数据，
// 订阅端收到后自己带着新的投递边界重查，天然容忍信号丢失和乱序。
func broadcastChannel(prefix string, dojoID uint64) string {
	return fmt.Sprintf("%ssignal:dojo:%d:broadcast", prefix, dojoID)
}

func inboxChannel(prefix string, dojoID uint64, memberUID string) string {
	return fmt.Sprintf("%ssignal:dojo:%d:inbox:%s", prefix, dojoID, memberUID)
}

type changeSignal struct {
	Event    string `json:"event"`
	NoticeID uint64 `json:"notice_id,omitempty"`
}

// publishSignal 尽力而为地发布变更信号。rdb 为空或发布失败都只记日志：
// 信号丢了最多让订阅端晚一拍刷新，不能反过来影响写路径。
func publishSignal(rdb *redis.Client, channel, event string, noticeID uint64) {
	if rdb == nil {
		return
	}
	payload, err := json.Marshal(changeSignal{Event: event, NoticeID: noticeID})
	if err != nil {
		return
	}
	if err := rdb.Publish(context.Background(), channel, payload).Err(); err != nil {
		log.Printf("publish signal to %s failed: %v", channel, err)
	}
}

// CancelFunc 取消一个订阅。返回后保证不会再有回调触发。
// 不允许在订阅回调内部调用（会死锁）。
type CancelFunc func()

// liveQuery 一条活跃订阅的生命周期。回调持锁执行，Cancel 抢同一把锁，
// 因此 Cancel 返回时在途回调必然已结束，之后 closed 挡掉一切新回调。
type liveQuery struct {
	mu     sync.Mutex
	closed bool
	pubsub *redis.PubSub
}

func (q *liveQuery) deliver(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	fn()
	return true
}

func (q *liveQuery) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	if q.pubsub != nil {
		_ = q.pubsub.Close()
	}
}

// SubscriptionService 活跃查询：先给初始快照，之后每收到一次变更信号
// 就带着新的投递边界重查并回调。
// RDB 未配置时退化为一次性快照（只有初始回调，没有后续更新）。
type SubscriptionService struct {
	*Service
}

func NewSubscriptionService(s *Service) *SubscriptionService {
	return &SubscriptionService{Service: s}
}

// SubscribeBroadcast 订阅道场的全员公告流。
// onChange 每次拿到的是完整快照（当前可投递的全员公告，send_at 倒序）。
func (s *SubscriptionService) SubscribeBroadcast(dojoID uint64, limit int, onChange func([]models.Notice)) (CancelFunc, error) {
	query := func() ([]models.Notice, error) {
		return repository.NewNoticeDAO(s.DB).ListBroadcastDeliverable(dojoID, DeliveryBoundary(time.Now()), clampFeedLimit(limit))
	}
	return s.subscribe(broadcastChannel(s.TablePrefix, dojoID), func(q *liveQuery) (bool, error) {
		rows, err := query()
		if err != nil {
			return false, err
		}
		return q.deliver(func() { onChange(rows) }), nil
	})
}

// SubscribeInbox 订阅成员的个人收件箱流。
func (s *SubscriptionService) SubscribeInbox(dojoID uint64, memberUID string, limit int, onChange func([]models.NoticeInbox)) (CancelFunc, error) {
	query := func() ([]models.NoticeInbox, error) {
		return repository.NewInboxDAO(s.DB).ListDeliverableByMember(dojoID, memberUID, DeliveryBoundary(time.Now()), clampFeedLimit(limit))
	}
	return s.subscribe(inboxChannel(s.TablePrefix, dojoID, memberUID), func(q *liveQuery) (bool, error) {
		rows, err := query()
		if err != nil {
			return false, err
		}
		return q.deliver(func() { onChange(rows) }), nil
	})
}

// subscribe 先建立订阅、再发初始快照，中间落库的写不会漏信号。
// refresh 重查并回调，返回 false 表示订阅已取消。
func (s *SubscriptionService) subscribe(channel string, refresh func(*liveQuery) (bool, error)) (CancelFunc, error) {
	q := &liveQuery{}

	if s.RDB != nil {
		pubsub := s.RDB.Subscribe(context.Background(), channel)
		if _, err := pubsub.Receive(context.Background()); err != nil {
			_ = pubsub.Close()
			return nil, fmt.Errorf("subscribe %s: %w", channel, err)
		}
		q.pubsub = pubsub
	}

	if _, err := refresh(q); err != nil {
		q.Cancel()
		return nil, err
	}

	if q.pubsub != nil {
		go s.pump(q, channel, refresh)
	}
	return q.Cancel, nil
}

func (s *SubscriptionService) pump(q *liveQuery, channel string, refresh func(*liveQuery) (bool, error)) {
	ch := q.pubsub.Channel()
	for msg := range ch {
		if msg == nil {
			continue
		}
		alive, err := refresh(q)
		if err != nil {
			// 单次重查失败不终止订阅，等下一个信号再试
			log.Printf("live query refresh on %s failed: %v", channel, err)
			continue
		}
		if !alive {
			return
		}
	}
}
