package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"star-admin-api/internal/model"
)

// SQLVersionRepository implements VersionRepository.
type SQLVersionRepository struct {
	db  *DB
	now func() time.Time
}

// NewSQLVersionRepository creates a new version repository.
func NewSQLVersionRepository(db *DB) *SQLVersionRepository {
	return &SQLVersionRepository{db: db, now: utcNow}
}

const versionColumns = `id, device_type, version, status, release_date, description, created_at, updated_at`

// Create inserts a release.
func (r *SQLVersionRepository) Create(ctx context.Context, v *model.Version) error {
	now := r.now()
	query := `INSERT INTO version_control (device_type, version, status, release_date, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query, v.DeviceType, v.Version, v.Status, v.ReleaseDate, v.Description, now, now)
	if err != nil {
		return fmt.Errorf("failed to create version: %w", err)
	}

	v.ID = id
	v.CreatedAt = now
	v.UpdatedAt = now
	return nil
}

// FindByID finds a release by primary key.
func (r *SQLVersionRepository) FindByID(ctx context.Context, id int64) (*model.Version, error) {
	return r.one(ctx, `SELECT `+versionColumns+` FROM version_control WHERE id = ?`, id)
}

// ListByDevice returns every release for a platform, oldest first.
func (r *SQLVersionRepository) ListByDevice(ctx context.Context, deviceType string) ([]model.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM version_control WHERE device_type = ? ORDER BY id ASC`

	rows, err := r.db.query(ctx, query, deviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []model.Version
	for rows.Next() {
		var v model.Version
		if err := scanVersion(rows, &v); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// UpdateStatus changes a release's status and returns the updated row.
func (r *SQLVersionRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.Version, error) {
	res, err := r.db.exec(ctx, `UPDATE version_control SET status = ?, updated_at = ? WHERE id = ?`, status, r.now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update version: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Find returns the newest row matching a device and version string.
func (r *SQLVersionRepository) Find(ctx context.Context, deviceType, version string) (*model.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM version_control
		WHERE device_type = ? AND version = ? ORDER BY id DESC LIMIT 1`
	return r.one(ctx, query, deviceType, version)
}

// LatestRelease returns the newest release marked latest.
func (r *SQLVersionRepository) LatestRelease(ctx context.Context, deviceType string) (*model.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM version_control
		WHERE device_type = ? AND status = ? ORDER BY id DESC LIMIT 1`
	return r.one(ctx, query, deviceType, model.VersionLatest)
}

func (r *SQLVersionRepository) one(ctx context.Context, query string, args ...interface{}) (*model.Version, error) {
	var v model.Version
	if err := scanVersion(r.db.queryRow(ctx, query, args...), &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return &v, nil
}

func scanVersion(row rowScanner, v *model.Version) error {
	return row.Scan(&v.ID, &v.DeviceType, &v.Version, &v.Status, &v.ReleaseDate, &v.Description, &v.CreatedAt, &v.UpdatedAt)
}

var _ VersionRepository = (*SQLVersionRepository)(nil)
