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

// fail writes err as an error envelope. Known service errors map to client
// errors; anything else is logged and reported as a 500 with fallback as
// the message. notFound is used for service.ErrNotFound.
func fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, notFound, fallback string) {
	response.Error(w, toAPIError(r, log, err, notFound, fallback))
}

func toAPIError(r *http.Request, log *zap.Logger, err error, notFound, fallback string) *apierror.Error {
	if apiErr, ok := apierror.As(err); ok {
		return apiErr
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		apiErr := apierror.ValidationError(verr.Message)
		if verr.Field != "" {
			apiErr = apiErr.WithDetails(apierror.FieldError{Field: verr.Field, Message: verr.Message})
		}
		return apiErr
	}

	switch {
	case errors.Is(err, errBadBody):
		return apierror.BadRequest("Invalid request body.")
	case errors.Is(err, service.ErrNotFound):
		return apierror.NotFound(notFound)
	case errors.Is(err, service.ErrEmailTaken):
		return apierror.BadRequest("Email already in use.")
	case errors.Is(err, service.ErrUserIDTaken):
		return apierror.BadRequest("UserId already in use.")
	case errors.Is(err, service.ErrInvalidCredentials):
		return apierror.Unauthorized("Invalid credentials. Please try again.")
	case errors.Is(err, service.ErrWrongPassword):
		return apierror.Unauthorized("Old password is incorrect.")
	case errors.Is(err, service.ErrSamePassword):
		return apierror.BadRequest("New password cannot be the same as the old password.")
	case errors.Is(err, service.ErrPasswordConfirm):
		return apierror.BadRequest("Password and confirm password do not match.")
	case errors.Is(err, service.ErrInvalidOTP):
		return apierror.BadRequest("Invalid OTP")
	case errors.Is(err, service.ErrOTPExpired):
		return apierror.BadRequest("OTP has expired")
	case errors.Is(err, service.ErrMailDelivery):
		return apierror.InternalError("Failed to send OTP email")
	}

	log.Error("request failed",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	return apierror.InternalError(fallback)
}
