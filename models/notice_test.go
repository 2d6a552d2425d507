package models

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// TestNoticeBeforeCreate 测试 Notice.BeforeCreate 自动生成 NoticeUID (UUID)
func TestNoticeBeforeCreate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}

	// 测试用例 1: NoticeUID 为空时，自动生成 UUID
	t.Run("AutoGenerateUUID", func(t *testing.T) {
		n := &Notice{
			DojoID:       1,
			Type:         NoticeTypeNotice,
			Title:        "夏季集训安排",
			AudienceType: AudienceAll,
			Status:       NoticeStatusSent,
		}

		mock.ExpectExec("INSERT INTO `dojo_notice`").
			WillReturnResult(sqlmock.NewResult(1, 1))

		if err := db.Create(n).Error; err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if n.NoticeUID == "" {
			t.Error("NoticeUID should be auto-generated, but it's empty")
		}

		if _, err := uuid.Parse(n.NoticeUID); err != nil {
			t.Errorf("NoticeUID should be a valid UUID, got: %s, error: %v", n.NoticeUID, err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unfulfilled expectations: %v", err)
		}
	})

	// 测试用例 2: NoticeUID 已设置时，不覆盖
	t.Run("PreserveExistingNoticeUID", func(t *testing.T) {
		customUUID := uuid.New().String()
		n := &Notice{
			NoticeUID:    customUUID,
			DojoID:       1,
			Type:         NoticeTypeMemo,
			Title:        "器材盘点",
			AudienceType: AudienceAll,
			Status:       NoticeStatusDraft,
		}

		mock.ExpectExec("INSERT INTO `dojo_notice`").
			WillReturnResult(sqlmock.NewResult(2, 1))

		if err := db.Create(n).Error; err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if n.NoticeUID != customUUID {
			t.Errorf("NoticeUID should be preserved, expected: %s, got: %s", customUUID, n.NoticeUID)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unfulfilled expectations: %v", err)
		}
	})
}

// TestTableNames 测试表名前缀拼接
func TestTableNames(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{Dojo{}.TableName(), "dojo_dojo"},
		{Member{}.TableName(), "dojo_member"},
		{Notice{}.TableName(), "dojo_notice"},
		{NoticeInbox{}.TableName(), "dojo_notice_inbox"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("TableName() = %s, want %s", c.got, c.want)
		}
	}
}

// TestInboxMirrorFrom 测试收件箱镜像字段同步
func TestInboxMirrorFrom(t *testing.T) {
	end := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	n := &Notice{
		ID:        7,
		DojoID:    1,
		Type:      NoticeTypeNotice,
		Title:     "升段考试报名",
		Status:    NoticeStatusScheduled,
		StartTime: time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   &end,
		SendAt:    time.Date(2026, 6, 30, 10, 0, 0, 0, time.UTC),
	}

	entry := &NoticeInbox{DojoID: n.DojoID, MemberUID: "u_100", NoticeID: n.ID}
	entry.MirrorFrom(n)

	if entry.Title != n.Title || entry.Type != n.Type || entry.Status != n.Status {
		t.Errorf("mirror mismatch: %+v", entry)
	}
	if !entry.SendAt.Equal(n.SendAt) || !entry.StartTime.Equal(n.StartTime) {
		t.Errorf("mirror time mismatch: %+v", entry)
	}
	if entry.EndTime == nil || !entry.EndTime.Equal(*n.EndTime) {
		t.Errorf("mirror end_time mismatch: %+v", entry.EndTime)
	}
}
