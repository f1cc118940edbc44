package handler

import (
	"errors"
	"net/http"

	"star-admin-api/internal/middleware"
	"star-admin-api/internal/service"
	"star-admin-api/pkg/apierror"
	"star-admin-api/pkg/response"

	"go.uber.org/zap"
)

// AuthHandler serves /api/admin.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type adminView struct {
	ID     int64  `json:"id"`
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token,omitempty"`
}

// Signup handles POST /api/admin/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	admin, token, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(w, apierror.BadRequest("Email is already registered. Please choose a different email."))
			return
		}
		fail(w, r, h.logger, err, "", "Internal server error")
		return
	}

	view := adminView{ID: admin.ID, UserID: admin.UserID, Name: admin.Name, Email: admin.Email}
	response.WithToken(w, http.StatusCreated, "Signup successful!", view, token)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	admin, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, h.logger, err, "Admin not found with this email", "Internal server error")
		return
	}

	response.OK(w, "Login successful!", adminView{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
		Token: token,
	})
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())
	if token == "" {
		response.Error(w, apierror.BadRequest("Token is required."))
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		fail(w, r, h.logger, err, "", "An error occurred during logout.")
		return
	}

	response.OK(w, "Logout successful, token blacklisted.", nil)
}

type changePasswordRequest struct {
	ID              flexInt `json:"id"`
	OldPassword     string  `json:"oldPassword"`
	NewPassword     string  `json:"newPassword"`
	ConfirmPassword string  `json:"confirmPassword"`
}

// ChangePassword handles POST /api/admin/changePassword
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	err := h.auth.ChangePassword(r.Context(), service.ChangePasswordInput{
		ID:              int64(req.ID),
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if errors.Is(err, service.ErrPasswordConfirm) {
			response.Error(w, apierror.BadRequest("New password and confirm password do not match."))
			return
		}
		fail(w, r, h.logger, err, "Admin not found with the provided ID.", "An error occurred while changing the password.")
		return
	}

	response.OK(w, "Password changed successfully!", nil)
}

type emailRequest struct {
	Email string     `json:"email"`
	OTP   flexString `json:"otp"`
}

// ForgotPassword handles POST /api/admin/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		fail(w, r, h.logger, err, "Email not registered", "Error generating OTP")
		return
	}

	response.OK(w, "OTP sent to email", nil)
}

// VerifyOTP handles POST /api/admin/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	token, err := h.auth.VerifyOTP(r.Context(), req.Email, string(req.OTP))
	if err != nil {
		fail(w, r, h.logger, err, "User not found", "Verification failed")
		return
	}

	response.WithToken(w, http.StatusOK, "OTP verified", nil, token)
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResetPassword handles POST /api/admin/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Error(w, apierror.Unauthorized("Authorization token missing or malformed"))
		return
	}

	if err := h.auth.ResetPassword(r.Context(), *principal, req.Password, req.ConfirmPassword); err != nil {
		fail(w, r, h.logger, err, "User not found", "Reset failed")
		return
	}

	response.OK(w, "Password reset successful", nil)
}
