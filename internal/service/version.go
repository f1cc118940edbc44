package service

import (
	"context"
	"errors"
	"strings"

	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"
)

// VersionService tracks mobile app releases.
type VersionService struct {
	versions repository.VersionRepository
}

// NewVersionService creates a new version service.
func NewVersionService(versions repository.VersionRepository) *VersionService {
	return &VersionService{versions: versions}
}

// VersionInput is the payload for a new release.
type VersionInput struct {
	DeviceType  string `json:"deviceType"`
	Version     string `json:"version"`
	Status      string `json:"status"`
	ReleaseDate string `json:"releaseDate"`
	Description string `json:"description"`
}

// Add records a release.
func (s *VersionService) Add(ctx context.Context, in VersionInput) (*model.Version, error) {
	if err := required("deviceType, version, status, releaseDate and description are required.",
		in.DeviceType, in.Version, in.Status, in.ReleaseDate, in.Description); err != nil {
		return nil, err
	}
	if !model.IsDeviceType(in.DeviceType) {
		return nil, invalid("deviceType", `Invalid deviceType. Must be "ios" or "android".`)
	}
	if !model.IsVersionStatus(in.Status) {
		return nil, invalid("status", `Invalid status. Must be one of: "beta", "latest", "stable", "outdated".`)
	}

	v := &model.Version{
		DeviceType:  in.DeviceType,
		Version:     strings.TrimSpace(in.Version),
		Status:      in.Status,
		ReleaseDate: in.ReleaseDate,
		Description: in.Description,
	}
	if err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns every release for a platform. An empty history is ErrNotFound.
func (s *VersionService) List(ctx context.Context, deviceType string) ([]model.Version, error) {
	versions, err := s.versions.ListByDevice(ctx, deviceType)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, ErrNotFound
	}
	return versions, nil
}

// UpdateStatus changes a release's status.
func (s *VersionService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Version, error) {
	if !model.IsVersionStatus(status) {
		return nil, invalid("status", `Invalid status. Must be one of: "beta", "latest", "stable", "outdated".`)
	}

	v, err := s.versions.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// VersionCheck tells a client whether its build should be updated.
type VersionCheck struct {
	DeviceType     string `json:"deviceType"`
	Version        string `json:"version"`
	Status         string `json:"status,omitempty"`
	LatestVersion  string `json:"latestVersion,omitempty"`
	UpdateRequired bool   `json:"updateRequired"`
}

// Check reports the stored status of a client's version and the newest
// release marked latest. An update is required when the version is outdated,
// or unknown while a latest release exists.
func (s *VersionService) Check(ctx context.Context, deviceType, version string) (*VersionCheck, error) {
	version = strings.TrimSpace(version)
	if err := required("deviceType and version are required.", deviceType, version); err != nil {
		return nil, err
	}
	if !model.IsDeviceType(deviceType) {
		return nil, invalid("deviceType", `Invalid deviceType. Must be "ios" or "android".`)
	}

	out := &VersionCheck{DeviceType: deviceType, Version: version}

	current, err := s.versions.Find(ctx, deviceType, version)
	switch {
	case err == nil:
		out.Status = current.Status
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	latest, err := s.versions.LatestRelease(ctx, deviceType)
	switch {
	case err == nil:
		out.LatestVersion = latest.Version
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	switch {
	case out.Status == model.VersionOutdated:
		out.UpdateRequired = true
	case out.Status == "" && out.LatestVersion != "":
		out.UpdateRequired = true
	}
	return out, nil
}
