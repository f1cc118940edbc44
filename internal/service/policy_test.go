package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"star-admin-api/internal/repository"
	"star-admin-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicyService(t *testing.T) *PolicyService {
	t.Helper()

	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return NewPolicyService(repository.NewSQLPolicyRepository(newTestDB(t)), files)
}

func TestPolicyService_Upload(t *testing.T) {
	svc := newPolicyService(t)

	stored, err := svc.Upload("Privacy Policy.pdf", bytes.NewReader([]byte("%PDF-1.7\n")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "/uploads/policyDocuments/"))
	assert.True(t, strings.HasSuffix(stored.Filename, "-Privacy_Policy.pdf"))

	_, err = svc.Upload("notes.pdf", strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestPolicyService_AddUpdateList(t *testing.T) {
	svc := newPolicyService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "privacy", "/uploads/policyDocuments/1-p.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := svc.Add(ctx, "privacy", "/uploads/policyDocuments/1-p.pdf")
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	_, err = svc.Add(ctx, "privacy", "/other.pdf")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	updated, err := svc.Update(ctx, "privacy", "/uploads/policyDocuments/2-p.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/policyDocuments/2-p.pdf", updated.Document)

	_, err = svc.Update(ctx, "", "/x.pdf")
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "Policy type and document path are required.", verr.Message)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "privacy", all[0].Type)
}
