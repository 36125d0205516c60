package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAuditRepo_Log(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(1, "post_delete", "post", 9, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewAuditRepo(db).Log(context.Background(), 1, "post_delete", "post", 9, ""); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuditRepo_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM audit_log\s+WHERE user_id = \$1`).
		WithArgs(1, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "resource_type", "resource_id", "details", "created_at"}).
			AddRow(2, 1, "blog_update", "blog", 5, "", now).
			AddRow(1, 1, "register", "user", 1, "blog=alice", now))

	entries, err := NewAuditRepo(db).ListByUser(context.Background(), 1, 20, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != "blog_update" || entries[1].Details != "blog=alice" {
		t.Errorf("entries: %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
