package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"
	"star-admin-api/internal/storage"
)

// PolicyCategory is the upload directory for policy PDFs.
const PolicyCategory = "policyDocuments"

// PolicyService manages the PDFs behind the app's legal pages.
type PolicyService struct {
	policies repository.PolicyRepository
	files    *storage.Local
}

// NewPolicyService creates a new policy service.
func NewPolicyService(policies repository.PolicyRepository, files *storage.Local) *PolicyService {
	return &PolicyService{policies: policies, files: files}
}

// Upload stores a PDF and returns where it was saved.
func (s *PolicyService) Upload(name string, src io.Reader) (storage.Stored, error) {
	stored, err := s.files.Save(PolicyCategory, name, storage.KindPDF, src)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrEmptyFile) {
			return storage.Stored{}, ErrUnsupportedFile
		}
		return storage.Stored{}, err
	}
	return stored, nil
}

// Add registers a new policy type.
func (s *PolicyService) Add(ctx context.Context, policyType, documentPath string) (*model.PolicyDocument, error) {
	policyType = strings.TrimSpace(policyType)
	if err := required("Policy type and document path are required.", policyType, documentPath); err != nil {
		return nil, err
	}

	if _, err := s.policies.FindByType(ctx, policyType); err == nil {
		return nil, invalid("type", "Policy type already exists.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	p := &model.PolicyDocument{Type: policyType, Document: documentPath}
	if err := s.policies.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("type", "Policy type already exists.")
		}
		return nil, err
	}
	return p, nil
}

// Update points an existing policy type at a new document.
func (s *PolicyService) Update(ctx context.Context, policyType, documentPath string) (*model.PolicyDocument, error) {
	policyType = strings.TrimSpace(policyType)
	if err := required("Policy type and document path are required.", policyType, documentPath); err != nil {
		return nil, err
	}

	p, err := s.policies.UpdateDocument(ctx, policyType, documentPath)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns every policy document.
func (s *PolicyService) List(ctx context.Context) ([]model.PolicyDocument, error) {
	return s.policies.List(ctx)
}
