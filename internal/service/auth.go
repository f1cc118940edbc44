package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"star-admin-api/internal/credential"
	"star-admin-api/internal/mail"
	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"
	"star-admin-api/internal/session"

	"go.uber.org/zap"
)

// AuthService handles admin signup, login and password recovery.
type AuthService struct {
	admins repository.AdminRepository
	hasher *credential.Hasher
	tokens *session.Authority
	mailer mail.Sender
	logger *zap.Logger

	now     func() time.Time
	makeOTP func() (int, error)
}

// NewAuthService creates a new auth service.
func NewAuthService(
	admins repository.AdminRepository,
	hasher *credential.Hasher,
	tokens *session.Authority,
	mailer mail.Sender,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		admins:  admins,
		hasher:  hasher,
		tokens:  tokens,
		mailer:  mailer,
		logger:  logger,
		now:     time.Now,
		makeOTP: generateOTP,
	}
}

// SignupInput is the payload of an admin signup.
type SignupInput struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an admin and returns a short-lived token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.Admin, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := required("Name, email and password are required.", in.Name, in.Email, in.Password); err != nil {
		return nil, "", err
	}
	if !validEmail(in.Email) {
		return nil, "", invalid("email", "Valid email is required.")
	}

	taken, err := s.admins.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	admin := &model.Admin{
		UserID:   strings.TrimSpace(in.UserID),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", s.duplicateAdmin(ctx, admin.Email)
		}
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(session.Principal{ID: admin.ID, UserID: admin.UserID}, session.SignupTTL)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("admin signed up", zap.Int64("admin_id", admin.ID))
	return admin, token, nil
}

// duplicateAdmin tells which unique column a lost insert race collided on.
func (s *AuthService) duplicateAdmin(ctx context.Context, email string) error {
	taken, err := s.admins.EmailTaken(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return ErrUserIDTaken
}

// Login checks credentials and returns a day-long token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Admin, string, error) {
	email = strings.TrimSpace(email)
	if err := required("Email and password are required.", email, password); err != nil {
		return nil, "", err
	}

	admin, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := s.hasher.Compare(admin.Password, password); err != nil {
		if errors.Is(err, credential.ErrPasswordMismatch) {
			s.logger.Warn("login rejected", zap.Int64("admin_id", admin.ID))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(session.Principal{ID: admin.ID, Email: admin.Email}, session.LoginTTL)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// Logout revokes the presented token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// ChangePasswordInput is the payload of a password change.
type ChangePasswordInput struct {
	ID              int64  `json:"id"`
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePassword replaces an admin's password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.ID == 0 {
		return invalid("id", "All fields (id, oldPassword, newPassword, confirmPassword) are required.")
	}
	if err := required("All fields (id, oldPassword, newPassword, confirmPassword) are required.",
		in.OldPassword, in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordConfirm
	}

	admin, err := s.admins.FindByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.hasher.Compare(admin.Password, in.OldPassword); err != nil {
		if errors.Is(err, credential.ErrPasswordMismatch) {
			return ErrWrongPassword
		}
		return err
	}
	if in.NewPassword == in.OldPassword {
		return ErrSamePassword
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	return s.admins.UpdatePassword(ctx, admin.ID, hash)
}

// ForgotPassword stores a fresh OTP on the admin and mails it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := required("Email is required.", email); err != nil {
		return err
	}

	admin, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	otp, err := s.makeOTP()
	if err != nil {
		return err
	}
	if err := s.admins.SetOTP(ctx, admin.ID, otp, s.now().Add(OTPTTL)); err != nil {
		return err
	}

	msg := mail.Message{
		Title:       "Forgot password OTP",
		Email:       admin.Email,
		Description: fmt.Sprintf("Your OTP is %d. It will expire in 10 minutes.", otp),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send otp mail", zap.Int64("admin_id", admin.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// VerifyOTP checks a reset code and returns a token scoped to the email.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	email = strings.TrimSpace(email)
	if err := required("Email and otp are required.", email, otp); err != nil {
		return "", err
	}

	admin, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	code, err := strconv.Atoi(strings.TrimSpace(otp))
	if err != nil || admin.OTP == nil || *admin.OTP != code {
		return "", ErrInvalidOTP
	}
	if admin.OTPExpiry == nil || s.now().After(*admin.OTPExpiry) {
		return "", ErrOTPExpired
	}

	token, _, err := s.tokens.Issue(session.Principal{Email: admin.Email}, session.LoginTTL)
	return token, err
}

// ResetPassword sets a new password for the admin the token was issued to
// and clears the reset code.
func (s *AuthService) ResetPassword(ctx context.Context, p session.Principal, password, confirm string) error {
	if err := required("Password and confirmPassword are required.", password, confirm); err != nil {
		return err
	}
	if p.Email == "" {
		return ErrNotFound
	}

	admin, err := s.findByEmail(ctx, p.Email)
	if err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordConfirm
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.admins.ResetPassword(ctx, admin.ID, hash)
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*model.Admin, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return admin, nil
}
