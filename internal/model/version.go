package model

import "time"

const (
	DeviceAndroid = "android"
	DeviceIOS     = "ios"

	VersionBeta     = "beta"
	VersionLatest   = "latest"
	VersionStable   = "stable"
	VersionOutdated = "outdated"
)

// Version is a released mobile app build.
type Version struct {
	ID          int64     `json:"id"`
	DeviceType  string    `json:"deviceType"`
	Version     string    `json:"version"`
	Status      string    `json:"status"`
	ReleaseDate string    `json:"releaseDate"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsDeviceType reports whether s names a supported platform.
func IsDeviceType(s string) bool {
	return s == DeviceAndroid || s == DeviceIOS
}

// IsVersionStatus reports whether s is a known release status.
func IsVersionStatus(s string) bool {
	switch s {
	case VersionBeta, VersionLatest, VersionStable, VersionOutdated:
		return true
	}
	return false
}
