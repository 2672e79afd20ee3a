package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
	"usersadmin/internal/query"
)

var userCols = []string{"id", "name", "email", "role", "status", "created_at", "updated_at"}

func newMock(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return UserRepository{DB: db}, mock
}

func TestUserRepositoryFindBuildsFilteredPagedQuery(t *testing.T) {
	repo, mock := newMock(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	q := query.Translate(
		domain.FilterSpec{"name": "Ann", "role": "admin"},
		&domain.SortSpec{Field: "name", Order: domain.SortAsc},
		domain.PageRequest{Page: 2, PageSize: 10},
	)

	mock.ExpectQuery(`SELECT id, name, email, role, status, created_at, updated_at FROM users WHERE LOWER\(name\) LIKE \? ESCAPE '!' AND role = \? ORDER BY name ASC LIMIT \? OFFSET \?`).
		WithArgs("%ann%", "admin", 10, 10).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("usr_1", "Anna", "anna@example.com", "admin", "active", ts, ts))

	got, err := repo.Find(context.Background(), q)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(got) != 1 || got[0].Role != models.RoleAdmin || !got[0].CreatedAt.Equal(ts) {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryFindWithoutFilterReturnsEmptySlice(t *testing.T) {
	repo, mock := newMock(t)
	q := query.Translate(nil, nil, domain.PageRequest{Page: 1, PageSize: 20})

	mock.ExpectQuery(`FROM users ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(userCols))

	got, err := repo.Find(context.Background(), q)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestUserRepositoryCount(t *testing.T) {
	repo, mock := newMock(t)
	p := query.Translate(domain.FilterSpec{"status": "banned"}, nil, domain.PageRequest{Page: 1, PageSize: 1}).Predicate

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE status = \?`).
		WithArgs("banned").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(7))

	n, err := repo.Count(context.Background(), p)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if n != 7 {
		t.Fatalf("count=%d want 7", n)
	}
}

func TestUserRepositoryExistsByEmail(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT 1 FROM users WHERE LOWER\(email\) = \?`).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM users WHERE LOWER\(email\) = \?`).
		WithArgs("b@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := repo.ExistsByEmail(context.Background(), "a@example.com")
	if err != nil || !ok {
		t.Fatalf("expected existing email, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.ExistsByEmail(context.Background(), "b@example.com")
	if err != nil || ok {
		t.Fatalf("expected free email, got ok=%v err=%v", ok, err)
	}
}

func TestUserRepositoryGetByIDMissing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WithArgs("usr_missing").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.GetByID(context.Background(), "usr_missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserRepositoryInsertDuplicate(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@example.com' for key 'users_email_uq'"})

	err := repo.Insert(context.Background(), models.User{ID: "usr_1", Name: "A", Email: "a@example.com", Role: models.RoleUser, Status: models.StatusActive})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepositoryUpdateOnlyProvidedFields(t *testing.T) {
	repo, mock := newMock(t)
	name := "New Name"
	status := models.StatusBanned
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE users SET name = \?, status = \?, updated_at = \? WHERE id = \?`).
		WithArgs("New Name", "banned", now, "usr_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Update(context.Background(), "usr_1", models.UpdateUserInput{Name: &name, Status: &status}, now)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows=%d want 1", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryDelete(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).
		WithArgs("usr_1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows=%d want 0", n)
	}
}
