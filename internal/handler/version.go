package handler

import (
	"net/http"

	"star-admin-api/internal/model"
	"star-admin-api/internal/service"
	"star-admin-api/pkg/response"

	"go.uber.org/zap"
)

// VersionHandler serves /api/version.
type VersionHandler struct {
	versions *service.VersionService
	logger   *zap.Logger
}

// NewVersionHandler creates a new version handler.
func NewVersionHandler(versions *service.VersionService, logger *zap.Logger) *VersionHandler {
	return &VersionHandler{versions: versions, logger: logger}
}

// Add handles POST /api/version/add
func (h *VersionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req service.VersionInput
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	v, err := h.versions.Add(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err, "", "Failed to add version")
		return
	}

	response.Created(w, "Version added successfully", v)
}

// ListIOS handles GET /api/version/ios
func (h *VersionHandler) ListIOS(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.DeviceIOS, "iOS")
}

// ListAndroid handles GET /api/version/android
func (h *VersionHandler) ListAndroid(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.DeviceAndroid, "Android")
}

func (h *VersionHandler) list(w http.ResponseWriter, r *http.Request, device, label string) {
	versions, err := h.versions.List(r.Context(), device)
	if err != nil {
		fail(w, r, h.logger, err, "No "+label+" versions found", "Failed to fetch "+label+" versions")
		return
	}

	response.OK(w, label+" versions fetched successfully", versions)
}

type updateStatusRequest struct {
	ID     flexInt `json:"id"`
	Status string  `json:"status"`
}

// UpdateStatus handles PUT /api/version/update
func (h *VersionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	v, err := h.versions.UpdateStatus(r.Context(), int64(req.ID), req.Status)
	if err != nil {
		fail(w, r, h.logger, err, "Version not found", "Failed to update version status")
		return
	}

	response.OK(w, "Version status updated successfully", v)
}

// Check handles GET /api/version/check
func (h *VersionHandler) Check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.versions.Check(r.Context(), q.Get("deviceType"), q.Get("version"))
	if err != nil {
		fail(w, r, h.logger, err, "", "Failed to check version")
		return
	}

	response.OK(w, "Version checked successfully", result)
}
