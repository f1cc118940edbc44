package handler

import (
	"errors"
	"net/http"

	"star-admin-api/internal/service"
	"star-admin-api/pkg/apierror"
	"star-admin-api/pkg/response"

	"go.uber.org/zap"
)

// PolicyHandler serves /api/policyDocument.
type PolicyHandler struct {
	policies *service.PolicyService
	maxDoc   int64
	logger   *zap.Logger
}

// NewPolicyHandler creates a new policy handler.
func NewPolicyHandler(policies *service.PolicyService, maxDocBytes int64, logger *zap.Logger) *PolicyHandler {
	return &PolicyHandler{policies: policies, maxDoc: maxDocBytes, logger: logger}
}

// Upload handles POST /api/policyDocument/upload with a multipart
// "document" field.
func (h *PolicyHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxDoc)

	file, header, err := r.FormFile("document")
	if err != nil {
		if isTooLarge(err) {
			response.Error(w, apierror.TooLarge("Document is too large."))
			return
		}
		response.Error(w, apierror.BadRequest("Failed to upload PDF."))
		return
	}
	defer file.Close()

	stored, err := h.policies.Upload(header.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFile) {
			response.Error(w, apierror.BadRequest("Only PDF files are allowed."))
			return
		}
		fail(w, r, h.logger, err, "", "Internal server error while uploading PDF.")
		return
	}

	response.OK(w, "PDF uploaded successfully.", map[string]string{"documentPath": stored.URL(r)})
}

type policyRequest struct {
	Type         string `json:"type"`
	DocumentPath string `json:"documentPath"`
}

// Add handles POST /api/policyDocument/add
func (h *PolicyHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	p, err := h.policies.Add(r.Context(), req.Type, req.DocumentPath)
	if err != nil {
		fail(w, r, h.logger, err, "", "Internal server error.")
		return
	}

	response.Created(w, "Policy document added successfully.", p)
}

// Update handles PUT /api/policyDocument/update
func (h *PolicyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, r, h.logger, err, "", "")
		return
	}

	p, err := h.policies.Update(r.Context(), req.Type, req.DocumentPath)
	if err != nil {
		fail(w, r, h.logger, err, "Policy document not found.", "Internal server error.")
		return
	}

	response.OK(w, "Policy document updated successfully.", map[string]interface{}{
		"id":       p.ID,
		"type":     p.Type,
		"document": p.Document,
	})
}

// List handles GET /api/policyDocument/all
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	policies, err := h.policies.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err, "", "Failed to retrieve policy documents.")
		return
	}

	response.OK(w, "all policy documents are retrieved successfully", policies)
}
