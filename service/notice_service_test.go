package service

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cydxin/notice-sdk/models"
)

func noticeColumns() []string {
	return []string{
		"id", "notice_uid", "dojo_id", "type", "title", "body",
		"audience_type", "audience_uids", "start_time", "end_time",
		"send_at", "status", "created_by", "created_at", "updated_at",
	}
}

func TestPublishNoticeInvalidAudienceFailsFast(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	cases := []struct {
		name  string
		input *PublishNoticeInput
	}{
		{"未知受众类型", &PublishNoticeInput{DojoID: 1, Title: "x", AudienceType: "some_of_them"}},
		{"uids缺名单", &PublishNoticeInput{DojoID: 1, Title: "x", AudienceType: models.AudienceUIDs, AudienceUIDs: nil}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ns.PublishNotice(tc.input)
			if !errors.Is(err, ErrInvalidAudience) {
				t.Fatalf("err = %v, want ErrInvalidAudience", err)
			}
		})
	}

	// 校验失败发生在任何写入之前
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPublishNoticeEmptyUIDListIsLegal(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	// 只有公告本体落库，空名单不触发任何收件箱写
	mock.ExpectExec("INSERT INTO `dojo_notice`").
		WillReturnResult(sqlmock.NewResult(7, 1))

	dto, res, err := ns.PublishNotice(&PublishNoticeInput{
		DojoID:       1,
		Title:        "内部调整",
		AudienceType: models.AudienceUIDs,
		AudienceUIDs: []string{},
	})
	if err != nil {
		t.Fatalf("PublishNotice: %v", err)
	}
	if dto.AudienceType != models.AudienceUIDs {
		t.Fatalf("audience type = %s", dto.AudienceType)
	}
	if len(res.Delivered) != 0 || res.Partial() {
		t.Fatalf("empty audience should not fan out, got %+v", res)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPublishNoticeAllAudience(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	mock.ExpectExec("INSERT INTO `dojo_notice`").
		WillReturnResult(sqlmock.NewResult(9, 1))

	past := time.Now().Add(-time.Hour)
	dto, res, err := ns.PublishNotice(&PublishNoticeInput{
		DojoID:       1,
		Title:        "本周开放时间",
		AudienceType: models.AudienceAll,
		StartTime:    past,
	})
	if err != nil {
		t.Fatalf("PublishNotice: %v", err)
	}
	if dto.Status != models.NoticeStatusSent {
		t.Fatalf("status = %s, want sent", dto.Status)
	}
	if !dto.SendAt.Equal(past) {
		t.Fatalf("send_at = %v, want start time %v", dto.SendAt, past)
	}
	if len(res.Delivered) != 0 {
		t.Fatalf("all audience should not materialize inbox, got %v", res.Delivered)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPublishNoticeFutureSendAtIsScheduled(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	mock.ExpectExec("INSERT INTO `dojo_notice`").
		WillReturnResult(sqlmock.NewResult(10, 1))

	future := time.Now().Add(48 * time.Hour)
	dto, _, err := ns.PublishNotice(&PublishNoticeInput{
		DojoID:       1,
		Title:        "夏季集训报名",
		AudienceType: models.AudienceAll,
		StartTime:    future,
	})
	if err != nil {
		t.Fatalf("PublishNotice: %v", err)
	}
	if dto.Status != models.NoticeStatusScheduled {
		t.Fatalf("status = %s, want scheduled", dto.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUpdateNoticeNotFound(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").
		WillReturnRows(sqlmock.NewRows(noticeColumns()))

	title := "新标题"
	_, _, err := ns.UpdateNotice(1, 404, &UpdateNoticeInput{Title: &title})
	if !errors.Is(err, ErrNoticeNotFound) {
		t.Fatalf("err = %v, want ErrNoticeNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUpdateNoticeReconcilesAudience(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	sendAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	noticeRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(noticeColumns()).AddRow(
			uint64(7), "uid-7", uint64(1), models.NoticeTypeNotice, "晋级考核安排", "",
			models.AudienceUIDs, []byte(`["u_a","u_b"]`), sendAt, nil,
			sendAt, models.NoticeStatusSent, "coach_1", sendAt, sendAt,
		)
	}

	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").WillReturnRows(noticeRow())
	mock.ExpectExec("UPDATE `dojo_notice` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").WillReturnRows(
		sqlmock.NewRows(noticeColumns()).AddRow(
			uint64(7), "uid-7", uint64(1), models.NoticeTypeNotice, "晋级考核安排", "",
			models.AudienceUIDs, []byte(`["u_b","u_d"]`), sendAt, nil,
			sendAt, models.NoticeStatusSent, "coach_1", sendAt, sendAt,
		))

	// 对账：实际行 {a,b} → 目标 {b,d}
	mock.ExpectQuery("SELECT `member_uid` FROM `dojo_notice_inbox`").
		WithArgs(uint64(1), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"member_uid"}).AddRow("u_a").AddRow("u_b"))
	mock.ExpectExec("DELETE FROM `dojo_notice_inbox`").
		WithArgs(uint64(1), uint64(7), "u_a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectDeliverChunk(mock, 2, 2)

	newUIDs := []string{"u_b", "u_d"}
	dto, res, err := ns.UpdateNotice(1, 7, &UpdateNoticeInput{AudienceUIDs: &newUIDs})
	if err != nil {
		t.Fatalf("UpdateNotice: %v", err)
	}
	if res.Partial() {
		t.Fatalf("unexpected failures: %v", res.Failed)
	}
	if len(res.Removed) != 1 || res.Removed[0] != "u_a" {
		t.Fatalf("removed = %v, want [u_a]", res.Removed)
	}
	if len(dto.AudienceUIDs) != 2 {
		t.Fatalf("audience = %v", dto.AudienceUIDs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetNoticeForMemberDirectRead(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	sendAt := time.Now().Add(-time.Hour)
	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").WillReturnRows(
		sqlmock.NewRows(noticeColumns()).AddRow(
			uint64(7), "uid-7", uint64(1), models.NoticeTypeNotice, "晋级考核安排", "正文",
			models.AudienceUIDs, []byte(`["u_a"]`), sendAt, nil,
			sendAt, models.NoticeStatusSent, "coach_1", sendAt, sendAt,
		))

	dto, err := ns.GetNoticeForMember(1, "u_a", 7)
	if err != nil {
		t.Fatalf("GetNoticeForMember: %v", err)
	}
	if dto.Degraded {
		t.Fatal("direct read should not be degraded")
	}
	if dto.Body != "正文" {
		t.Fatalf("body = %q", dto.Body)
	}
	// 成员视角不回受众
	if dto.AudienceType != "" || dto.AudienceUIDs != nil {
		t.Fatalf("audience leaked to member view: %s %v", dto.AudienceType, dto.AudienceUIDs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetNoticeForMemberFallsBackToInbox(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	sendAt := time.Now().Add(-time.Hour)
	// 直读拿到公告，但 u_x 不在名单里，准入拒绝
	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").WillReturnRows(
		sqlmock.NewRows(noticeColumns()).AddRow(
			uint64(7), "uid-7", uint64(1), models.NoticeTypeNotice, "晋级考核安排", "正文",
			models.AudienceUIDs, []byte(`["u_a"]`), sendAt, nil,
			sendAt, models.NoticeStatusSent, "coach_1", sendAt, sendAt,
		))

	// 兜底命中收件箱镜像（历史投递留下的行）
	mock.ExpectQuery("SELECT \\* FROM `dojo_notice_inbox` WHERE").WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "dojo_id", "member_uid", "notice_id", "type", "title",
			"status", "start_time", "end_time", "send_at", "created_at", "updated_at",
		}).AddRow(
			uint64(100), uint64(1), "u_x", uint64(7), models.NoticeTypeNotice, "晋级考核安排",
			models.NoticeStatusSent, sendAt, nil, sendAt, sendAt, sendAt,
		))

	dto, err := ns.GetNoticeForMember(1, "u_x", 7)
	if err != nil {
		t.Fatalf("GetNoticeForMember: %v", err)
	}
	if !dto.Degraded {
		t.Fatal("fallback view should be marked degraded")
	}
	if dto.Body != "" {
		t.Fatalf("degraded view should not carry body, got %q", dto.Body)
	}
	if dto.Title != "晋级考核安排" {
		t.Fatalf("title = %q", dto.Title)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetNoticeForMemberNotFoundVsUnavailable(t *testing.T) {
	t.Run("两路都查无此公告", func(t *testing.T) {
		db, mock, sqldb := newMockDB(t)
		defer func() { _ = sqldb.Close() }()

		ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

		mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").
			WillReturnRows(sqlmock.NewRows(noticeColumns()))
		mock.ExpectQuery("SELECT \\* FROM `dojo_notice_inbox` WHERE").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := ns.GetNoticeForMember(1, "u_x", 404)
		if !errors.Is(err, ErrNoticeNotFound) {
			t.Fatalf("err = %v, want ErrNoticeNotFound", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("sql expectations: %v", err)
		}
	})

	t.Run("镜像存在但窗口外", func(t *testing.T) {
		db, mock, sqldb := newMockDB(t)
		defer func() { _ = sqldb.Close() }()

		ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

		future := time.Now().Add(24 * time.Hour)
		mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE").
			WillReturnRows(sqlmock.NewRows(noticeColumns()))
		mock.ExpectQuery("SELECT \\* FROM `dojo_notice_inbox` WHERE").WillReturnRows(
			sqlmock.NewRows([]string{
				"id", "dojo_id", "member_uid", "notice_id", "type", "title",
				"status", "start_time", "end_time", "send_at", "created_at", "updated_at",
			}).AddRow(
				uint64(100), uint64(1), "u_x", uint64(7), models.NoticeTypeNotice, "预告",
				models.NoticeStatusScheduled, future, nil, future, future, future,
			))

		_, err := ns.GetNoticeForMember(1, "u_x", 7)
		if !errors.Is(err, ErrDeliveryUnavailable) {
			t.Fatalf("err = %v, want ErrDeliveryUnavailable", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("sql expectations: %v", err)
		}
	})
}

func TestListNoticesCursor(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	ns := NewNoticeService(&Service{DB: db, TablePrefix: "dojo_"}, nil)

	sendAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(noticeColumns())
	for _, id := range []uint64{9, 8} {
		rows.AddRow(id, "", uint64(1), models.NoticeTypeNotice, "t", "",
			models.AudienceAll, nil, sendAt, nil, sendAt, models.NoticeStatusSent, "", sendAt, sendAt)
	}
	mock.ExpectQuery("SELECT \\* FROM `dojo_notice` WHERE dojo_id = \\?").
		WillReturnRows(rows)

	list, next, err := ns.ListNotices(1, "", 0, 2)
	if err != nil {
		t.Fatalf("ListNotices: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// 满页时游标指向最后一条
	if next != 8 {
		t.Fatalf("next cursor = %d, want 8", next)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
