package service

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cydxin/notice-sdk/models"
)

func dojoColumns() []string {
	return []string{"id", "name", "status", "owner_uid", "created_at", "updated_at", "deleted_at"}
}

func TestCreateDojo(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewDojoService(&Service{DB: db, TablePrefix: "dojo_"})

	if _, err := svc.CreateDojo("   ", "boss"); err == nil {
		t.Fatal("expected error for blank name")
	}

	mock.ExpectExec("INSERT INTO `dojo_dojo`").
		WillReturnResult(sqlmock.NewResult(3, 1))

	d, err := svc.CreateDojo(" 松涛馆 ", "boss")
	if err != nil {
		t.Fatalf("CreateDojo: %v", err)
	}
	if d.ID != 3 || d.Name != "松涛馆" || d.Status != models.DojoStatusActive {
		t.Fatalf("dojo = %+v", d)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestArchiveDojoOwnerCheck(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewDojoService(&Service{DB: db, TablePrefix: "dojo_"})

	now := time.Now()
	dojoRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(dojoColumns()).
			AddRow(uint64(3), "松涛馆", models.DojoStatusActive, "boss", now, now, nil)
	}

	// 非馆长操作被拒，且不产生 UPDATE
	mock.ExpectQuery("SELECT \\* FROM `dojo_dojo` WHERE").WillReturnRows(dojoRow())
	if err := svc.ArchiveDojo(3, "stranger"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}

	mock.ExpectQuery("SELECT \\* FROM `dojo_dojo` WHERE").WillReturnRows(dojoRow())
	mock.ExpectExec("UPDATE `dojo_dojo` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := svc.ArchiveDojo(3, "boss"); err != nil {
		t.Fatalf("ArchiveDojo: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestArchiveDojoNotFound(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewDojoService(&Service{DB: db, TablePrefix: "dojo_"})

	mock.ExpectQuery("SELECT \\* FROM `dojo_dojo` WHERE").
		WillReturnRows(sqlmock.NewRows(dojoColumns()))

	if err := svc.ArchiveDojo(404, "boss"); err == nil {
		t.Fatal("expected error for missing dojo")
	}
}

func TestIsDojoActive(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	svc := NewDojoService(&Service{DB: db, TablePrefix: "dojo_"})

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dojo_dojo` WHERE").
		WithArgs(uint64(3), models.DojoStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	ok, err := svc.IsDojoActive(3)
	if err != nil {
		t.Fatalf("IsDojoActive: %v", err)
	}
	if ok {
		t.Fatal("archived dojo reported active")
	}
}
