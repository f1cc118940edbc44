package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"star-admin-api/internal/model"
)

// SQLAdminRepository implements AdminRepository on any supported dialect.
type SQLAdminRepository struct {
	db  *DB
	now func() time.Time
}

// NewSQLAdminRepository creates a new admin repository.
func NewSQLAdminRepository(db *DB) *SQLAdminRepository {
	return &SQLAdminRepository{db: db, now: utcNow}
}

const adminColumns = `id, user_id, name, email, password, otp, otp_expiry, created_at, updated_at`

// Create inserts a new admin.
func (r *SQLAdminRepository) Create(ctx context.Context, a *model.Admin) error {
	now := r.now()
	query := `INSERT INTO admins (user_id, name, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query, nullString(a.UserID), a.Name, a.Email, a.Password, now, now)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// FindByID finds a live admin by primary key.
func (r *SQLAdminRepository) FindByID(ctx context.Context, id int64) (*model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.queryRow(ctx, query, id))
}

// FindByEmail finds a live admin by email.
func (r *SQLAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.queryRow(ctx, query, email))
}

// EmailTaken reports whether any admin row, deleted or not, uses email.
func (r *SQLAdminRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := r.db.count(ctx, `SELECT COUNT(*) FROM admins WHERE email = ?`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check admin email: %w", err)
	}
	return n > 0, nil
}

// UpdatePassword replaces the password hash.
func (r *SQLAdminRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	query := `UPDATE admins SET password = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	res, err := r.db.exec(ctx, query, hash, r.now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireAffected(res)
}

// SetOTP stores a reset code and its expiry.
func (r *SQLAdminRepository) SetOTP(ctx context.Context, id int64, otp int, expiry time.Time) error {
	query := `UPDATE admins SET otp = ?, otp_expiry = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	res, err := r.db.exec(ctx, query, otp, expiry.UTC(), r.now(), id)
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return requireAffected(res)
}

// ResetPassword replaces the hash and clears the reset code.
func (r *SQLAdminRepository) ResetPassword(ctx context.Context, id int64, hash string) error {
	query := `UPDATE admins SET password = ?, otp = NULL, otp_expiry = NULL, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	res, err := r.db.exec(ctx, query, hash, r.now(), id)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return requireAffected(res)
}

// ClearExpiredOTPs drops reset codes that expired before the given time.
func (r *SQLAdminRepository) ClearExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	query := `UPDATE admins SET otp = NULL, otp_expiry = NULL WHERE otp_expiry IS NOT NULL AND otp_expiry < ?`

	res, err := r.db.exec(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired otps: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLAdminRepository) scanOne(row *sql.Row) (*model.Admin, error) {
	var (
		a         model.Admin
		userID    sql.NullString
		otp       sql.NullInt64
		otpExpiry sql.NullTime
	)

	err := row.Scan(&a.ID, &userID, &a.Name, &a.Email, &a.Password, &otp, &otpExpiry, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	a.UserID = userID.String
	if otp.Valid {
		v := int(otp.Int64)
		a.OTP = &v
	}
	if otpExpiry.Valid {
		t := otpExpiry.Time
		a.OTPExpiry = &t
	}
	return &a, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}

var _ AdminRepository = (*SQLAdminRepository)(nil)
