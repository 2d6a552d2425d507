package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/cydxin/notice-sdk/cons"
	"github.com/cydxin/notice-sdk/repository"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	// RetryMaxAttempts 异步补偿的最大轮次，打满进死信。
	RetryMaxAttempts = 5

	// RetryBackoffBase 补偿间隔基数，按轮次线性放大，外加少量抖动。
	RetryBackoffBase = 30 * time.Second

	retryTick       = 5 * time.Second
	retryClaimBatch = 64
	retryJitterMax  = 5 * time.Second
)

// RetryTask 一次待补偿的收件箱写。Op 只是入队时的意图记录，
// 重放一律以公告当前受众为准重新推导，补偿永远不会复活已被对账
// 摘除的行。
type RetryTask struct {
	DojoID     uint64    `json:"dojo_id"`
	NoticeID   uint64    `json:"notice_id"`
	MemberUID  string    `json:"member_uid"`
	Op         string    `json:"op"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"last_error,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// FanoutRetryWorker 扇出补偿 worker。
// 同步重试打满的成员写进 redis zset（score 为下次执行时间），
// worker 周期性认领到期任务重放，反复失败的任务落死信列表。
type FanoutRetryWorker struct {
	svc    *Service
	fanout *FanoutService

	tick     time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewFanoutRetryWorker(s *Service) *FanoutRetryWorker {
	return &FanoutRetryWorker{
		svc:      s,
		fanout:   NewFanoutService(s),
		tick:     retryTick,
		stopChan: make(chan struct{}),
	}
}

func (w *FanoutRetryWorker) retryKey() string {
	return w.svc.TablePrefix + "notice:fanout:retry"
}

func (w *FanoutRetryWorker) deadKey() string {
	return w.svc.TablePrefix + "notice:fanout:dead"
}

// Start 启动补偿循环。
func (w *FanoutRetryWorker) Start() error {
	if w.svc.RDB == nil {
		return fmt.Errorf("redis client is nil")
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop 停止补偿循环并等待在途轮次结束。可重复调用。
func (w *FanoutRetryWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
}

// Enqueue 入队一个补偿任务。redis 未配置时静默丢弃，
// 失败成员仍留在 FanoutResult.Failed 里由调用方处置。
func (w *FanoutRetryWorker) Enqueue(task *RetryTask) {
	if task == nil || w.svc.RDB == nil {
		return
	}
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now()
	}
	w.schedule(context.Background(), task)
}

func (w *FanoutRetryWorker) schedule(ctx context.Context, task *RetryTask) {
	data, err := json.Marshal(task)
	if err != nil {
		return
	}
	delay := RetryBackoffBase*time.Duration(task.Attempts+1) + time.Duration(rand.Int63n(int64(retryJitterMax)))
	err = w.svc.RDB.ZAdd(ctx, w.retryKey(), &redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(data),
	}).Err()
	if err != nil {
		log.Printf("schedule fanout retry for notice %d member %s failed: %v", task.NoticeID, task.MemberUID, err)
	}
}

func (w *FanoutRetryWorker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.drainDue(context.Background())
		}
	}
}

// drainDue 认领到期任务并重放。ZRem 返回 0 说明别的实例抢先了，跳过。
func (w *FanoutRetryWorker) drainDue(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	members, err := w.svc.RDB.ZRangeByScore(ctx, w.retryKey(), &redis.ZRangeBy{
		Min:   "0",
		Max:   now,
		Count: retryClaimBatch,
	}).Result()
	if err != nil {
		log.Printf("claim fanout retry tasks failed: %v", err)
		return
	}

	for _, member := range members {
		removed, err := w.svc.RDB.ZRem(ctx, w.retryKey(), member).Result()
		if err != nil || removed == 0 {
			continue
		}

		var task RetryTask
		if err := json.Unmarshal([]byte(member), &task); err != nil {
			log.Printf("drop corrupted fanout retry task: %v", err)
			continue
		}

		if err := w.replay(&task); err != nil {
			task.Attempts++
			task.LastError = err.Error()
			if task.Attempts >= RetryMaxAttempts {
				w.bury(ctx, &task)
				continue
			}
			w.schedule(ctx, &task)
		}
	}
}

// replay 以公告当前状态重放一次收件箱写。
// 成员仍在受众里就刷镜像；不在了（或公告已删）就清残留行。
func (w *FanoutRetryWorker) replay(task *RetryTask) error {
	n, err := repository.NewNoticeDAO(w.svc.DB).GetByID(task.DojoID, task.NoticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return w.removeResidue(task)
		}
		return err
	}

	aud := Audience{Type: n.AudienceType, UIDs: decodeAudienceUIDs(n.AudienceUIDs)}
	for _, uid := range aud.MaterializedUIDs() {
		if uid != task.MemberUID {
			continue
		}
		if err := w.fanout.deliverOne(n, task.MemberUID); err != nil {
			return err
		}
		w.fanout.signalInbox(task.DojoID, task.MemberUID, task.NoticeID, cons.EventInboxDelivered)
		return nil
	}
	return w.removeResidue(task)
}

func (w *FanoutRetryWorker) removeResidue(task *RetryTask) error {
	err := repository.NewInboxDAO(w.svc.DB).DeleteOne(task.DojoID, task.NoticeID, task.MemberUID)
	if err != nil {
		return err
	}
	w.fanout.signalInbox(task.DojoID, task.MemberUID, task.NoticeID, cons.EventInboxRevoked)
	return nil
}

func (w *FanoutRetryWorker) bury(ctx context.Context, task *RetryTask) {
	log.Printf("fanout retry for notice %d member %s exhausted after %d attempts: %s",
		task.NoticeID, task.MemberUID, task.Attempts, task.LastError)
	data, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := w.svc.RDB.LPush(ctx, w.deadKey(), string(data)).Err(); err != nil {
		log.Printf("push fanout retry task to dead list failed: %v", err)
	}
}

// DeadTasks 读死信列表（新失败在前），给运维排查用。
func (w *FanoutRetryWorker) DeadTasks(ctx context.Context, limit int64) ([]RetryTask, error) {
	if w.svc.RDB == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if limit <= 0 {
		limit = 100
	}
	raw, err := w.svc.RDB.LRange(ctx, w.deadKey(), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	tasks := make([]RetryTask, 0, len(raw))
	for _, item := range raw {
		var task RetryTask
		if err := json.Unmarshal([]byte(item), &task); err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
