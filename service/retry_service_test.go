package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/cydxin/notice-sdk/cons"
	"github.com/cydxin/notice-sdk/models"
	"github.com/go-redis/redis/v8"
)

func newRetryWorker(t *testing.T) (*FanoutRetryWorker, sqlmock.Sqlmock, *redis.Client, func()) {
	db, mock, sqldb := newMockDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	w := NewFanoutRetryWorker(&Service{DB: db, RDB: rdb, TablePrefix: "dojo_"})
	return w, mock, rdb, func() { _ = sqldb.Close() }
}

// seedDueTask 直接写 zset 并把 score 放到过去，绕开 Enqueue 的退避延迟。
func seedDueTask(t *testing.T, rdb *redis.Client, w *FanoutRetryWorker, task RetryTask) {
	t.Helper()
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now().Add(-time.Minute)
	}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	err = rdb.ZAdd(context.Background(), w.retryKey(), &redis.Z{
		Score:  float64(time.Now().Add(-time.Minute).Unix()),
		Member: string(data),
	}).Err()
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

func TestRetryEnqueueSchedulesWithBackoff(t *testing.T) {
	w, _, rdb, closeDB := newRetryWorker(t)
	defer closeDB()

	before := time.Now()
	w.Enqueue(&RetryTask{DojoID: 1, NoticeID: 7, MemberUID: "u_a", Op: cons.FanoutOpUpsert})
	after := time.Now()

	zs, err := rdb.ZRangeWithScores(context.Background(), w.retryKey(), 0, -1).Result()
	if err != nil {
		t.Fatalf("read retry zset: %v", err)
	}
	if len(zs) != 1 {
		t.Fatalf("zset size = %d, want 1", len(zs))
	}

	var task RetryTask
	if err := json.Unmarshal([]byte(zs[0].Member.(string)), &task); err != nil {
		t.Fatalf("unmarshal member: %v", err)
	}
	if task.MemberUID != "u_a" || task.NoticeID != 7 {
		t.Fatalf("task = %+v", task)
	}
	if task.EnqueuedAt.IsZero() {
		t.Fatal("EnqueuedAt not stamped")
	}

	// 首轮延迟 = 基数 + 抖动
	score := int64(zs[0].Score)
	if min := before.Add(RetryBackoffBase).Unix() - 1; score < min {
		t.Fatalf("score %d earlier than backoff floor %d", score, min)
	}
	if max := after.Add(RetryBackoffBase+retryJitterMax).Unix() + 1; score > max {
		t.Fatalf("score %d later than backoff ceiling %d", score, max)
	}
}

func TestRetryReplayStillTargetedRefreshesMirror(t *testing.T) {
	w, mock, rdb, closeDB := newRetryWorker(t)
	defer closeDB()

	sendAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").
		WillReturnRows(sqlmock.NewRows(noticeColumns()).AddRow(
			uint64(7), "uid-1", uint64(1), models.NoticeTypeNotice, "补偿", "",
			models.AudienceUIDs, []byte(`["u_a"]`), sendAt, nil, sendAt, models.NoticeStatusSent, "", sendAt, sendAt,
		))
	mock.ExpectExec("INSERT INTO `dojo_member`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `dojo_notice_inbox`").WillReturnResult(sqlmock.NewResult(1, 1))

	seedDueTask(t, rdb, w, RetryTask{DojoID: 1, NoticeID: 7, MemberUID: "u_a", Op: cons.FanoutOpUpsert})
	w.drainDue(context.Background())

	if n, _ := rdb.ZCard(context.Background(), w.retryKey()).Result(); n != 0 {
		t.Fatalf("zset still holds %d tasks after successful replay", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRetryReplayRemovedMemberClearsResidue(t *testing.T) {
	w, mock, rdb, closeDB := newRetryWorker(t)
	defer closeDB()

	sendAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// 入队后受众被对账改掉：u_a 已不在名单里
	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").
		WillReturnRows(sqlmock.NewRows(noticeColumns()).AddRow(
			uint64(7), "uid-1", uint64(1), models.NoticeTypeNotice, "补偿", "",
			models.AudienceUIDs, []byte(`["u_b"]`), sendAt, nil, sendAt, models.NoticeStatusSent, "", sendAt, sendAt,
		))
	mock.ExpectExec("DELETE FROM `dojo_notice_inbox`").
		WithArgs(uint64(1), uint64(7), "u_a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	seedDueTask(t, rdb, w, RetryTask{DojoID: 1, NoticeID: 7, MemberUID: "u_a", Op: cons.FanoutOpUpsert})
	w.drainDue(context.Background())

	if n, _ := rdb.ZCard(context.Background(), w.retryKey()).Result(); n != 0 {
		t.Fatalf("zset still holds %d tasks", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRetryReplayNoticeGoneClearsResidue(t *testing.T) {
	w, mock, rdb, closeDB := newRetryWorker(t)
	defer closeDB()

	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").
		WillReturnRows(sqlmock.NewRows(noticeColumns()))
	mock.ExpectExec("DELETE FROM `dojo_notice_inbox`").
		WithArgs(uint64(1), uint64(7), "u_a").
		WillReturnResult(sqlmock.NewResult(0, 0))

	seedDueTask(t, rdb, w, RetryTask{DojoID: 1, NoticeID: 7, MemberUID: "u_a", Op: cons.FanoutOpDelete})
	w.drainDue(context.Background())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRetryReschedulesWithIncrementedAttempts(t *testing.T) {
	w, mock, rdb, closeDB := newRetryWorker(t)
	defer closeDB()

	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").WillReturnError(errMockWrite)

	seedDueTask(t, rdb, w, RetryTask{DojoID: 1, NoticeID: 7, MemberUID: "u_a", Op: cons.FanoutOpUpsert})
	w.drainDue(context.Background())

	zs, err := rdb.ZRangeWithScores(context.Background(), w.retryKey(), 0, -1).Result()
	if err != nil || len(zs) != 1 {
		t.Fatalf("zset = %v (err %v), want 1 rescheduled task", zs, err)
	}
	var task RetryTask
	if err := json.Unmarshal([]byte(zs[0].Member.(string)), &task); err != nil {
		t.Fatalf("unmarshal member: %v", err)
	}
	if task.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1", task.Attempts)
	}
	if task.LastError == "" {
		t.Fatal("LastError not recorded")
	}
	// 第二轮延迟按轮次放大，新 score 必然在未来
	if int64(zs[0].Score) <= time.Now().Unix() {
		t.Fatalf("rescheduled score %d not in the future", int64(zs[0].Score))
	}
}

func TestRetryBuriesAfterMaxAttempts(t *testing.T) {
	w, mock, rdb, closeDB := newRetryWorker(t)
	defer closeDB()

	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").WillReturnError(errMockWrite)

	seedDueTask(t, rdb, w, RetryTask{
		DojoID: 1, NoticeID: 7, MemberUID: "u_a",
		Op: cons.FanoutOpUpsert, Attempts: RetryMaxAttempts - 1,
	})
	w.drainDue(context.Background())

	if n, _ := rdb.ZCard(context.Background(), w.retryKey()).Result(); n != 0 {
		t.Fatalf("exhausted task still in zset")
	}

	dead, err := w.DeadTasks(context.Background(), 10)
	if err != nil {
		t.Fatalf("DeadTasks: %v", err)
	}
	if len(dead) != 1 {
		t.Fatalf("dead tasks = %d, want 1", len(dead))
	}
	if dead[0].Attempts != RetryMaxAttempts || dead[0].MemberUID != "u_a" {
		t.Fatalf("dead task = %+v", dead[0])
	}
}

func TestRetryWorkerStartStop(t *testing.T) {
	w, _, _, closeDB := newRetryWorker(t)
	defer closeDB()

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop() // 可重复调用

	// RDB 未配置时拒绝启动
	db, _, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	noRedis := NewFanoutRetryWorker(&Service{DB: db})
	if err := noRedis.Start(); err == nil {
		t.Fatal("Start without redis should fail")
	}
}
