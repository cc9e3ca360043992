package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/karlov/authgate/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+password_reset_tokens\b.*RETURNING\s+id,\s*created_at\s*$`

	mock.ExpectQuery(q).
		WithArgs("u1", "tok123", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("t1", time.Now()))

	rt, err := repo.Create(context.Background(), "u1", "tok123", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.ID != "t1" || rt.UserID != "u1" {
		t.Fatalf("unexpected token: %+v", rt)
	}
}

func TestFindActiveByUser_NoneActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,.*FROM\s+password_reset_tokens\s+WHERE\s+user_id\s*=\s*\$1\b`

	mock.ExpectQuery(q).WithArgs("u1").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByUser(context.Background(), "u1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestConsume_ConditionalUpdateLoses(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+password_reset_tokens\s+SET\s+used\s*=\s*true\s+WHERE\s+token\s*=\s*\$1\s+AND\s+NOT\s+used\s*$`

	mock.ExpectExec(q).WithArgs("tok123").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Consume(context.Background(), "tok123"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestConsume_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+password_reset_tokens\s+SET\s+used\s*=\s*true\b`

	mock.ExpectExec(q).WithArgs("tok123").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Consume(context.Background(), "tok123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
