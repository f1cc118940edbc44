package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"star-admin-api/internal/model"
	"star-admin-api/internal/service"
	"star-admin-api/pkg/apierror"
	"star-admin-api/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ManagerHandler serves one staff kind, /api/SupportManager or
// /api/starManager.
type ManagerHandler struct {
	managers *service.ManagerService
	kind     model.StaffKind
	maxImage int64
	logger   *zap.Logger
}

// NewManagerHandler creates a handler for the service's staff kind.
func NewManagerHandler(managers *service.ManagerService, maxImageBytes int64, logger *zap.Logger) *ManagerHandler {
	kind := managers.Kind()
	return &ManagerHandler{
		managers: managers,
		kind:     kind,
		maxImage: maxImageBytes,
		logger:   logger.With(zap.String("staff_kind", kind.Name)),
	}
}

// managerRequest accepts the kind's user id under either userId or uId.
type managerRequest struct {
	ID       flexInt `json:"id"`
	Name     string  `json:"name"`
	UserID   string  `json:"userId"`
	UID      string  `json:"uId"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	ImageURL string  `json:"imageUrl"`
}

func (req managerRequest) input() service.ManagerInput {
	userID := req.UserID
	if req.UID != "" {
		userID = req.UID
	}
	return service.ManagerInput{
		ID:       int64(req.ID),
		Name:     req.Name,
		UserID:   userID,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	}
}

// UploadImage handles POST /image with a multipart "image" field.
func (h *ManagerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImage)

	file, header, err := r.FormFile("image")
	if err != nil {
		if isTooLarge(err) {
			response.Error(w, apierror.TooLarge("Image is too large."))
			return
		}
		response.Error(w, apierror.BadRequest("No image file provided or invalid file type."))
		return
	}
	defer file.Close()

	stored, err := h.managers.UploadImage(header.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFile) {
			response.Error(w, apierror.BadRequest("No image file provided or invalid file type."))
			return
		}
		fail(w, r, h.logger, err, "", "Failed to save image.")
		return
	}

	response.OK(w, "Image uploaded successfully.", map[string]string{"url": stored.URL(r)})
}

// Create handles POST /addnew
func (h *ManagerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req managerRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	m, err := h.managers.Create(r.Context(), req.input())
	if err != nil {
		fail(w, r, h.logger, err, "", "Internal server error.")
		return
	}

	response.Created(w, h.kind.Label+" account created successfully.", map[string]interface{}{
		"id":       m.ID,
		"name":     m.Name,
		"userId":   m.UserID,
		"email":    m.Email,
		"imageUrl": m.ImageURL,
	})
}

// List handles GET /all
func (h *ManagerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.managers.List(r.Context(), queryInt(r, "page", 1))
	if err != nil {
		fail(w, r, h.logger, err, "", fmt.Sprintf("Failed to fetch %ss", h.kind.Label))
		return
	}

	response.Page(w, h.kind.Label+"s retrieved successfully", page.Managers, response.Pagination{
		CurrentPage:    page.Page.Number,
		TotalPages:     page.Page.TotalPages(page.TotalRecords),
		TotalRecords:   page.TotalRecords,
		RecordsPerPage: page.Page.Limit,
	})
}

// Update handles PUT /update
func (h *ManagerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req managerRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	m, err := h.managers.Update(r.Context(), req.input())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Error(w, apierror.BadRequest("Email already exists for another "+h.kind.Label+"."))
		case errors.Is(err, service.ErrUserIDTaken):
			response.Error(w, apierror.BadRequest("User ID already exists for another "+h.kind.Label+"."))
		default:
			fail(w, r, h.logger, err, h.kind.Label+" not found.", "An error occurred while updating the "+h.kind.Label+".")
		}
		return
	}

	response.OK(w, h.kind.Label+" updated successfully!", m)
}

// Delete handles DELETE /delete/{id}
func (h *ManagerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.NotFound(h.kind.Label+" not found."))
		return
	}

	if err := h.managers.Delete(r.Context(), id); err != nil {
		fail(w, r, h.logger, err, h.kind.Label+" not found.", "An error occurred while deleting the "+h.kind.Label+".")
		return
	}

	response.OK(w, h.kind.Label+" deleted successfully!", nil)
}

// Count handles GET /count
func (h *ManagerHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.managers.Count(r.Context())
	if err != nil {
		fail(w, r, h.logger, err, "", "Failed to fetch "+h.kind.Label+" count. Please try again later.")
		return
	}

	response.OK(w, "Total "+h.kind.Label+" count retrieved successfully", map[string]string{
		h.kind.CountKey: count,
	})
}
