package repository

import (
	"context"
	"time"

	"star-admin-api/internal/model"
)

// AdminRepository defines admin account data access methods.
type AdminRepository interface {
	// Create inserts a and sets its ID.
	Create(ctx context.Context, a *model.Admin) error

	FindByID(ctx context.Context, id int64) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)

	// EmailTaken reports whether any row, soft-deleted ones included, uses
	// email.
	EmailTaken(ctx context.Context, email string) (bool, error)

	// UpdatePassword replaces the stored hash.
	UpdatePassword(ctx context.Context, id int64, hash string) error

	// SetOTP stores a reset code, replacing any previous one.
	SetOTP(ctx context.Context, id int64, otp int, expiry time.Time) error

	// ResetPassword replaces the hash and clears the reset code.
	ResetPassword(ctx context.Context, id int64, hash string) error

	// ClearExpiredOTPs drops reset codes that expired before the given time
	// and returns how many were cleared.
	ClearExpiredOTPs(ctx context.Context, before time.Time) (int64, error)
}

// ManagerRepository defines staff account data access methods for one
// StaffKind.
type ManagerRepository interface {
	Kind() model.StaffKind

	// Create inserts m and sets its ID.
	Create(ctx context.Context, m *model.Manager) error

	FindByID(ctx context.Context, id int64) (*model.Manager, error)

	// List returns one page ordered by id and the total number of live rows.
	List(ctx context.Context, limit, offset int) ([]model.Manager, int64, error)

	Update(ctx context.Context, m *model.Manager) error
	SoftDelete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)

	// EmailTaken and UserIDTaken look at every row other than excludeID,
	// soft-deleted ones included.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UserIDTaken(ctx context.Context, userID string, excludeID int64) (bool, error)
}

// UserRepository defines read and moderation access to app users.
type UserRepository interface {
	// List returns one page of users of userType ordered by id.
	List(ctx context.Context, userType string, limit, offset int) ([]model.User, int64, error)

	// ToggleStatus flips the blocked flag and returns the updated user.
	ToggleStatus(ctx context.Context, id int64) (*model.User, error)

	CountByType(ctx context.Context, userType string) (int64, error)
	CountByStatus(ctx context.Context, active bool) (int64, error)

	// CreatedBetween returns signup times in [from, to).
	CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// VersionRepository defines app release data access methods.
type VersionRepository interface {
	Create(ctx context.Context, v *model.Version) error
	FindByID(ctx context.Context, id int64) (*model.Version, error)
	ListByDevice(ctx context.Context, deviceType string) ([]model.Version, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Version, error)

	// Find returns the newest row for a device and version string.
	Find(ctx context.Context, deviceType, version string) (*model.Version, error)

	// LatestRelease returns the newest row marked latest for a device.
	LatestRelease(ctx context.Context, deviceType string) (*model.Version, error)
}

// PolicyRepository defines policy document data access methods.
type PolicyRepository interface {
	Create(ctx context.Context, p *model.PolicyDocument) error
	FindByType(ctx context.Context, policyType string) (*model.PolicyDocument, error)
	UpdateDocument(ctx context.Context, policyType, document string) (*model.PolicyDocument, error)
	List(ctx context.Context) ([]model.PolicyDocument, error)
}
