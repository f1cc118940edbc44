package handler

import (
	"net/http"
	"strconv"

	"star-admin-api/internal/model"
	"star-admin-api/internal/service"
	"star-admin-api/pkg/apierror"
	"star-admin-api/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler serves /api/user.
type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type userView struct {
	ID      int64  `json:"id"`
	DP      string `json:"dp"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Gender  string `json:"gender"`
	Country string `json:"country"`
	City    string `json:"city"`
	Status  string `json:"status"`
}

type userPagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
}

// ListUsers handles GET /api/user/allUsers
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.UserTypeUser, "users", "Users retrieved successfully")
}

// ListStars handles GET /api/user/allStars
func (h *UserHandler) ListStars(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.UserTypeStar, "stars", "Stars retrieved successfully")
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request, userType, key, message string) {
	page, err := h.users.List(r.Context(), userType, queryInt(r, "page", 1))
	if err != nil {
		fail(w, r, h.logger, err, "", "Internal server error")
		return
	}

	views := make([]userView, 0, len(page.Users))
	for _, u := range page.Users {
		views = append(views, userView{
			ID:      u.ID,
			DP:      u.DP,
			Name:    u.Name,
			Phone:   u.Phone,
			Gender:  u.Gender,
			Country: u.Country,
			City:    u.City,
			Status:  u.StatusLabel(),
		})
	}

	response.OK(w, message, map[string]interface{}{
		key: views,
		"pagination": userPagination{
			CurrentPage:  page.Page.Number,
			TotalPages:   page.Page.TotalPages(page.TotalRecords),
			TotalRecords: page.TotalRecords,
		},
	})
}

// ToggleStatus handles PUT /api/user/{id}
func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.NotFound("User not found."))
		return
	}

	u, err := h.users.ToggleStatus(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, err, "User not found.", "Internal server error")
		return
	}

	status := u.StatusLabel()
	response.OK(w, "User "+status+" successfully.", map[string]interface{}{
		"id":     u.ID,
		"name":   u.Name,
		"status": status,
	})
}

// Count handles GET /api/user/count
func (h *UserHandler) Count(w http.ResponseWriter, r *http.Request) {
	counts, err := h.users.Counts(r.Context())
	if err != nil {
		fail(w, r, h.logger, err, "", "Failed to fetch user counts. Please try again later.")
		return
	}

	response.OK(w, "User counts retrieved successfully", counts)
}

type yearRequest struct {
	Year flexInt `json:"year"`
}

// ByYear handles GET /api/user/byYear. The year comes from the query
// string or, failing that, the body.
func (h *UserHandler) ByYear(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", 0)
	if year == 0 {
		var req yearRequest
		if err := decodeBody(r, &req); err != nil {
			response.Error(w, apierror.BadRequest("Invalid year provided."))
			return
		}
		year = int(req.Year)
	}

	signups, err := h.users.SignupsByYear(r.Context(), year)
	if err != nil {
		fail(w, r, h.logger, err, "", "Failed to fetch signup data")
		return
	}

	response.OK(w, "Signup data fetched successfully", signups)
}
