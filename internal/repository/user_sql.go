package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"star-admin-api/internal/model"
)

// SQLUserRepository implements UserRepository. Users are created by the
// mobile backend; this side only reads and moderates them.
type SQLUserRepository struct {
	db  *DB
	now func() time.Time
}

// NewSQLUserRepository creates a new user repository.
func NewSQLUserRepository(db *DB) *SQLUserRepository {
	return &SQLUserRepository{db: db, now: utcNow}
}

const userColumns = `id, dp, name, phone, user_id, email, gender, country, city, user_type, status, created_at`

// List returns one page of users of the given type.
func (r *SQLUserRepository) List(ctx context.Context, userType string, limit, offset int) ([]model.User, int64, error) {
	total, err := r.CountByType(ctx, userType)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users
		WHERE user_type = ? AND deleted_at IS NULL
		ORDER BY id ASC LIMIT ? OFFSET ?`

	rows, err := r.db.query(ctx, query, userType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// ToggleStatus flips a user between blocked and unblocked.
func (r *SQLUserRepository) ToggleStatus(ctx context.Context, id int64) (*model.User, error) {
	query := `UPDATE users SET status = NOT status, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	res, err := r.db.exec(ctx, query, r.now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	var u model.User
	err = scanUser(r.db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id), &u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// CountByType counts live users of a type.
func (r *SQLUserRepository) CountByType(ctx context.Context, userType string) (int64, error) {
	n, err := r.db.count(ctx, `SELECT COUNT(*) FROM users WHERE user_type = ? AND deleted_at IS NULL`, userType)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountByStatus counts live users that are active or blocked.
func (r *SQLUserRepository) CountByStatus(ctx context.Context, active bool) (int64, error) {
	n, err := r.db.count(ctx, `SELECT COUNT(*) FROM users WHERE status = ? AND deleted_at IS NULL`, active)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CreatedBetween returns the signup time of every live user created in
// [from, to). Grouping by month happens in the caller so the query stays
// portable across dialects.
func (r *SQLUserRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `SELECT created_at FROM users WHERE created_at >= ? AND created_at < ? AND deleted_at IS NULL`

	rows, err := r.db.query(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanUser(row rowScanner, u *model.User) error {
	var dp sql.NullString
	err := row.Scan(&u.ID, &dp, &u.Name, &u.Phone, &u.UserID, &u.Email, &u.Gender, &u.Country, &u.City,
		&u.UserType, &u.Active, &u.CreatedAt)
	u.DP = dp.String
	return err
}

var _ UserRepository = (*SQLUserRepository)(nil)
