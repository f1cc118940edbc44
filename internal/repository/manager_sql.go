package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"star-admin-api/internal/model"
)

// SQLManagerRepository implements ManagerRepository for a single StaffKind.
// Table and column names come from the kind, never from user input.
type SQLManagerRepository struct {
	db   *DB
	kind model.StaffKind
	now  func() time.Time

	columns string
}

// NewSQLManagerRepository creates a repository bound to kind's table.
func NewSQLManagerRepository(db *DB, kind model.StaffKind) *SQLManagerRepository {
	return &SQLManagerRepository{
		db:      db,
		kind:    kind,
		now:     utcNow,
		columns: "id, image_url, name, " + kind.UserIDColumn + ", email, password, created_at, updated_at",
	}
}

// Kind returns the staff kind this repository serves.
func (r *SQLManagerRepository) Kind() model.StaffKind {
	return r.kind
}

// Create inserts a new staff account.
func (r *SQLManagerRepository) Create(ctx context.Context, m *model.Manager) error {
	now := r.now()
	query := fmt.Sprintf(`INSERT INTO %s (image_url, name, %s, email, password, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r.kind.Table, r.kind.UserIDColumn)

	id, err := r.db.insert(ctx, query, m.ImageURL, m.Name, m.UserID, m.Email, m.Password, true, now, now)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.kind.Name, err)
	}

	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

// FindByID finds a live staff account.
func (r *SQLManagerRepository) FindByID(ctx context.Context, id int64) (*model.Manager, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND deleted_at IS NULL`, r.columns, r.kind.Table)

	var m model.Manager
	if err := scanManager(r.db.queryRow(ctx, query, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.kind.Name, err)
	}
	return &m, nil
}

// List returns a page of live accounts ordered by id.
func (r *SQLManagerRepository) List(ctx context.Context, limit, offset int) ([]model.Manager, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE deleted_at IS NULL ORDER BY id ASC LIMIT ? OFFSET ?`,
		r.columns, r.kind.Table)

	rows, err := r.db.query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.kind.Name, err)
	}
	defer rows.Close()

	managers := make([]model.Manager, 0, limit)
	for rows.Next() {
		var m model.Manager
		if err := scanManager(rows, &m); err != nil {
			return nil, 0, fmt.Errorf("failed to scan %s: %w", r.kind.Name, err)
		}
		managers = append(managers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.kind.Name, err)
	}

	return managers, total, nil
}

// Update writes every mutable field of m.
func (r *SQLManagerRepository) Update(ctx context.Context, m *model.Manager) error {
	now := r.now()
	query := fmt.Sprintf(`UPDATE %s SET image_url = ?, name = ?, %s = ?, email = ?, password = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, r.kind.Table, r.kind.UserIDColumn)

	res, err := r.db.exec(ctx, query, m.ImageURL, m.Name, m.UserID, m.Email, m.Password, now, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.kind.Name, err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	m.UpdatedAt = now
	return nil
}

// SoftDelete marks the account deleted.
func (r *SQLManagerRepository) SoftDelete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, r.kind.Table)

	res, err := r.db.exec(ctx, query, r.now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.kind.Name, err)
	}
	return requireAffected(res)
}

// Count returns the number of live accounts.
func (r *SQLManagerRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.db.count(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE deleted_at IS NULL`, r.kind.Table))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.kind.Name, err)
	}
	return n, nil
}

// EmailTaken reports whether another row, deleted or not, uses email.
func (r *SQLManagerRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

// UserIDTaken reports whether another row, deleted or not, uses userID.
func (r *SQLManagerRepository) UserIDTaken(ctx context.Context, userID string, excludeID int64) (bool, error) {
	return r.taken(ctx, r.kind.UserIDColumn, userID, excludeID)
}

func (r *SQLManagerRepository) taken(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ? AND id <> ?`, r.kind.Table, column)

	n, err := r.db.count(ctx, query, value, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", r.kind.Name, column, err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanManager(row rowScanner, m *model.Manager) error {
	var imageURL sql.NullString
	err := row.Scan(&m.ID, &imageURL, &m.Name, &m.UserID, &m.Email, &m.Password, &m.CreatedAt, &m.UpdatedAt)
	m.ImageURL = imageURL.String
	return err
}

var _ ManagerRepository = (*SQLManagerRepository)(nil)
