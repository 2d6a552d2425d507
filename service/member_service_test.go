package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cydxin/notice-sdk/models"
)

func memberColumns() []string {
	return []string{"id", "dojo_id", "member_uid", "nickname", "status", "created_at", "updated_at"}
}

func TestJoinDojoCreatesNewMember(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewMemberService(&Service{DB: db, TablePrefix: "dojo_"})

	mock.ExpectQuery("SELECT \\* FROM `dojo_member` WHERE dojo_id = \\? AND member_uid = \\?").
		WillReturnRows(sqlmock.NewRows(memberColumns()))
	mock.ExpectExec("INSERT INTO `dojo_member`").
		WillReturnResult(sqlmock.NewResult(12, 1))

	m, err := svc.JoinDojo(1, "u_new", "小张")
	if err != nil {
		t.Fatalf("JoinDojo: %v", err)
	}
	if m.ID != 12 || m.Status != models.MemberStatusActive || m.Nickname != "小张" {
		t.Fatalf("member = %+v", m)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestJoinDojoActivatesPendingPlaceholder(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewMemberService(&Service{DB: db, TablePrefix: "dojo_"})

	now := time.Now()
	// 扇出先落的 pending 占位行，加入时直接转正并补昵称
	mock.ExpectQuery("SELECT \\* FROM `dojo_member` WHERE dojo_id = \\? AND member_uid = \\?").
		WillReturnRows(sqlmock.NewRows(memberColumns()).
			AddRow(uint64(5), uint64(1), "u_a", "", models.MemberStatusPending, now, now))
	mock.ExpectExec("UPDATE `dojo_member` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	m, err := svc.JoinDojo(1, "u_a", "阿强")
	if err != nil {
		t.Fatalf("JoinDojo: %v", err)
	}
	if m.ID != 5 || m.Status != models.MemberStatusActive || m.Nickname != "阿强" {
		t.Fatalf("member = %+v", m)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestJoinDojoEmptyUID(t *testing.T) {
	db, _, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewMemberService(&Service{DB: db})

	if _, err := svc.JoinDojo(1, "", "x"); err == nil {
		t.Fatal("expected error for empty member uid")
	}
}

func TestLeaveDojo(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewMemberService(&Service{DB: db, TablePrefix: "dojo_"})

	mock.ExpectExec("UPDATE `dojo_member` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := svc.LeaveDojo(1, "u_a"); err != nil {
		t.Fatalf("LeaveDojo: %v", err)
	}

	// 不存在或已退：0 行命中要报错
	mock.ExpectExec("UPDATE `dojo_member` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := svc.LeaveDojo(1, "u_gone"); err == nil {
		t.Fatal("expected error when no row matched")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestIsActiveMember(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewMemberService(&Service{DB: db, TablePrefix: "dojo_"})

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dojo_member` WHERE").
		WithArgs(uint64(1), "u_a", models.MemberStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := svc.IsActiveMember(1, "u_a")
	if err != nil {
		t.Fatalf("IsActiveMember: %v", err)
	}
	if !ok {
		t.Fatal("want active")
	}
}

func TestListMembersClampsLimit(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewMemberService(&Service{DB: db, TablePrefix: "dojo_"})

	now := time.Now()
	// limit 0 落默认 50
	mock.ExpectQuery("SELECT \\* FROM `dojo_member` WHERE dojo_id = \\? ORDER BY id ASC LIMIT \\?").
		WithArgs(uint64(1), 50).
		WillReturnRows(sqlmock.NewRows(memberColumns()).
			AddRow(uint64(1), uint64(1), "u_a", "", models.MemberStatusActive, now, now))

	list, err := svc.ListMembers(1, "", 0)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(list) != 1 || list[0].MemberUID != "u_a" {
		t.Fatalf("list = %+v", list)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
