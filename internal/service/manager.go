package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"star-admin-api/internal/credential"
	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"
	"star-admin-api/internal/storage"

	"go.uber.org/zap"
)

// ManagerService manages one kind of staff account. Passwords are stored
// reversibly so the panel can display them.
type ManagerService struct {
	repo   repository.ManagerRepository
	cipher *credential.Cipher
	files  *storage.Local
	logger *zap.Logger
}

// NewManagerService creates a service over repo.
func NewManagerService(repo repository.ManagerRepository, cipher *credential.Cipher, files *storage.Local, logger *zap.Logger) *ManagerService {
	return &ManagerService{
		repo:   repo,
		cipher: cipher,
		files:  files,
		logger: logger.With(zap.String("staff_kind", repo.Kind().Name)),
	}
}

// Kind returns the staff kind this service manages.
func (s *ManagerService) Kind() model.StaffKind {
	return s.repo.Kind()
}

// ManagerInput carries create and update fields. On update, blank fields
// keep their stored value.
type ManagerInput struct {
	ID       int64
	Name     string
	UserID   string
	Email    string
	Password string
	ImageURL string
}

// RevealedManager is a listing row with its password made displayable.
// Password is nil when the stored value could not be revealed.
type RevealedManager struct {
	ID       int64   `json:"id"`
	ImageURL string  `json:"imageUrl"`
	Name     string  `json:"name"`
	UserID   string  `json:"userId"`
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

// ManagerPage is one page of a staff listing.
type ManagerPage struct {
	Managers     []RevealedManager
	Page         Page
	TotalRecords int64
}

// UploadImage stores a profile picture under the kind's upload category.
func (s *ManagerService) UploadImage(name string, src io.Reader) (storage.Stored, error) {
	stored, err := s.files.Save(s.repo.Kind().UploadCategory, name, storage.KindImage, src)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrEmptyFile) {
			return storage.Stored{}, ErrUnsupportedFile
		}
		return storage.Stored{}, err
	}
	return stored, nil
}

// Create validates in and stores a new account with an encrypted password.
func (s *ManagerService) Create(ctx context.Context, in ManagerInput) (*model.Manager, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.UserID = strings.TrimSpace(in.UserID)

	kind := s.repo.Kind()
	msg := "name, " + kind.UserIDField + ", email, password, and imageUrl are required."
	if err := required(msg, in.Name, in.UserID, in.Email, in.Password, in.ImageURL); err != nil {
		return nil, err
	}
	if !validEmail(in.Email) {
		return nil, invalid("email", "Valid email is required.")
	}
	if err := validateStaffPassword(in.Password); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, in.Email, in.UserID, 0); err != nil {
		return nil, err
	}

	encrypted, err := s.cipher.Encrypt(in.Password)
	if err != nil {
		return nil, err
	}

	m := &model.Manager{
		Name:     in.Name,
		UserID:   in.UserID,
		Email:    in.Email,
		Password: encrypted,
		ImageURL: in.ImageURL,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicate(ctx, m.Email, m.UserID, 0)
		}
		return nil, err
	}

	s.logger.Info("staff account created", zap.Int64("id", m.ID))
	return m, nil
}

// List returns a page of accounts with passwords revealed.
func (s *ManagerService) List(ctx context.Context, page int) (*ManagerPage, error) {
	p := NewPage(page)
	managers, total, err := s.repo.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}

	out := make([]RevealedManager, 0, len(managers))
	for _, m := range managers {
		out = append(out, RevealedManager{
			ID:       m.ID,
			ImageURL: m.ImageURL,
			Name:     m.Name,
			UserID:   m.UserID,
			Email:    m.Email,
			Password: s.reveal(m),
		})
	}

	return &ManagerPage{Managers: out, Page: p, TotalRecords: total}, nil
}

func (s *ManagerService) reveal(m model.Manager) *string {
	if m.Password == "" {
		return nil
	}

	value, ok, err := s.cipher.Reveal(m.Password)
	if err != nil {
		s.logger.Warn("failed to decrypt staff password", zap.Int64("id", m.ID), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &value
}

// Update applies the non-blank fields of in to an existing account.
func (s *ManagerService) Update(ctx context.Context, in ManagerInput) (*model.Manager, error) {
	if in.ID == 0 {
		return nil, invalid("id", "ID is required.")
	}

	m, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	in.Email = strings.TrimSpace(in.Email)
	in.UserID = strings.TrimSpace(in.UserID)
	if in.Email != "" && !validEmail(in.Email) {
		return nil, invalid("email", "Valid email is required.")
	}
	if err := s.checkUnique(ctx, in.Email, in.UserID, m.ID); err != nil {
		return nil, err
	}

	if in.ImageURL != "" {
		m.ImageURL = in.ImageURL
	}
	if in.Email != "" {
		m.Email = in.Email
	}
	if in.Name != "" {
		m.Name = in.Name
	}
	if in.UserID != "" {
		m.UserID = in.UserID
	}
	if in.Password != "" {
		encrypted, err := s.cipher.Encrypt(in.Password)
		if err != nil {
			return nil, err
		}
		m.Password = encrypted
	}

	if err := s.repo.Update(ctx, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, s.duplicate(ctx, m.Email, m.UserID, m.ID)
		}
		return nil, err
	}
	return m, nil
}

// Delete soft-deletes an account.
func (s *ManagerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("staff account deleted", zap.Int64("id", id))
	return nil
}

// Count returns the formatted number of live accounts.
func (s *ManagerService) Count(ctx context.Context) (string, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return "", err
	}
	return FormatCount(n), nil
}

func (s *ManagerService) checkUnique(ctx context.Context, email, userID string, excludeID int64) error {
	if email != "" {
		taken, err := s.repo.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
	}
	if userID != "" {
		taken, err := s.repo.UserIDTaken(ctx, userID, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return ErrUserIDTaken
		}
	}
	return nil
}

// duplicate names the column a write lost a uniqueness race on.
func (s *ManagerService) duplicate(ctx context.Context, email, userID string, excludeID int64) error {
	if err := s.checkUnique(ctx, email, userID, excludeID); err != nil {
		return err
	}
	return ErrEmailTaken
}
