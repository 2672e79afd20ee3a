package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intdb "usersadmin/internal/db"
	"usersadmin/internal/domain/models"
	"usersadmin/internal/query"
)

// ErrDuplicateEmail is returned when the unique email index rejects a write.
var ErrDuplicateEmail = errors.New("users: duplicate email")

const userColumns = "id, name, email, role, status, created_at, updated_at"

// UserRepository wraps DB access for the users table. Every method is a
// single statement; nothing here spans two statements atomically.
type UserRepository struct {
	DB *sql.DB
}

// Find runs the translated list query and returns at most q.Limit rows.
func (r UserRepository) Find(ctx context.Context, q query.Query) ([]models.User, error) {
	where, args := q.Where()

	stmt := "SELECT " + userColumns + " FROM users"
	if where != "" {
		stmt += " WHERE " + where
	}
	stmt += " ORDER BY " + q.OrderBy() + " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Skip)

	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	// slice kosong, bukan nil, biar JSON jadi []
	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan users: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return out, nil
}

// Count returns how many users match p.
func (r UserRepository) Count(ctx context.Context, p query.Predicate) (int, error) {
	where, args := p.SQL()
	stmt := "SELECT COUNT(*) FROM users"
	if where != "" {
		stmt += " WHERE " + where
	}

	var n int
	if err := r.DB.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// ExistsByEmail compares case-insensitively; email must already be folded.
func (r UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE LOWER(email) = ? LIMIT 1`, email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("email lookup: %w", err)
	}
	return true, nil
}

// GetByID returns sql.ErrNoRows when id does not exist.
func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, sql.ErrNoRows
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// Insert stores u as given. A unique-index violation yields ErrDuplicateEmail.
func (r UserRepository) Insert(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, string(u.Role), string(u.Status), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateEmail, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update writes only the non-nil fields of in plus updated_at.
// It returns the number of rows matched by id.
func (r UserRepository) Update(ctx context.Context, id string, in models.UpdateUserInput, now time.Time) (int64, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	// hanya kolom yang dikirim
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *in.Email)
	}
	if in.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, string(*in.Role))
	}
	if in.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*in.Status))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	res, err := r.DB.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicateEmail, err)
		}
		return 0, fmt.Errorf("update user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update user %s: %w", id, err)
	}
	return n, nil
}

// Delete removes id and returns the number of rows removed.
func (r UserRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user %s: %w", id, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (models.User, error) {
	var (
		u      models.User
		role   string
		status string
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &role, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	u.Status = models.Status(status)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
