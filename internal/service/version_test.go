package service

import (
	"context"
	"testing"

	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVersionService(t *testing.T) *VersionService {
	t.Helper()
	return NewVersionService(repository.NewSQLVersionRepository(newTestDB(t)))
}

func release(device, version, status string) VersionInput {
	return VersionInput{
		DeviceType:  device,
		Version:     version,
		Status:      status,
		ReleaseDate: "2024-05-01",
		Description: "Bug fixes",
	}
}

func TestVersionService_AddAndList(t *testing.T) {
	svc := newVersionService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, model.DeviceIOS)
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := svc.Add(ctx, release(model.DeviceIOS, "1.0.0", model.VersionStable))
	require.NoError(t, err)
	assert.NotZero(t, v.ID)

	list, err := svc.List(ctx, model.DeviceIOS)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, model.DeviceAndroid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVersionService_AddValidation(t *testing.T) {
	svc := newVersionService(t)

	for _, in := range []VersionInput{
		release("windows", "1.0", model.VersionBeta),
		release(model.DeviceIOS, "1.0", "retired"),
		{DeviceType: model.DeviceIOS, Version: "1.0"},
	} {
		_, err := svc.Add(context.Background(), in)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestVersionService_UpdateStatus(t *testing.T) {
	svc := newVersionService(t)
	ctx := context.Background()

	v, err := svc.Add(ctx, release(model.DeviceAndroid, "2.0.0", model.VersionBeta))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, v.ID, model.VersionLatest)
	require.NoError(t, err)
	assert.Equal(t, model.VersionLatest, updated.Status)

	_, err = svc.UpdateStatus(ctx, v.ID, "gone")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateStatus(ctx, 999, model.VersionStable)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVersionService_Check(t *testing.T) {
	svc := newVersionService(t)
	ctx := context.Background()

	got, err := svc.Check(ctx, model.DeviceAndroid, "1.0.0")
	require.NoError(t, err)
	assert.False(t, got.UpdateRequired, "nothing released yet")

	for _, in := range []VersionInput{
		release(model.DeviceAndroid, "1.0.0", model.VersionOutdated),
		release(model.DeviceAndroid, "1.1.0", model.VersionStable),
		release(model.DeviceAndroid, "2.0.0", model.VersionLatest),
	} {
		_, err := svc.Add(ctx, in)
		require.NoError(t, err)
	}

	tests := []struct {
		version string
		status  string
		update  bool
	}{
		{"1.0.0", model.VersionOutdated, true},
		{"1.1.0", model.VersionStable, false},
		{"2.0.0", model.VersionLatest, false},
		{"0.9.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := svc.Check(ctx, model.DeviceAndroid, tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, "2.0.0", got.LatestVersion)
			assert.Equal(t, tt.update, got.UpdateRequired)
		})
	}

	_, err = svc.Check(ctx, "web", "1.0.0")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
