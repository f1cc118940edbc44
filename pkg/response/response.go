package response

import (
	"encoding/json"
	"net/http"

	"star-admin-api/pkg/apierror"
)

// Response represents a standard API response.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Token      string      `json:"token,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalRecords   int64 `json:"totalRecords"`
	RecordsPerPage int   `json:"recordsPerPage"`
}

// Write sends resp with the given status code.
func Write(w http.ResponseWriter, statusCode int, resp Response) {
	resp.Success = true

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	Write(w, statusCode, Response{Message: message, Data: data})
}

// Page sends a 200 OK response carrying pagination metadata.
func Page(w http.ResponseWriter, message string, data interface{}, p Pagination) {
	Write(w, http.StatusOK, Response{Message: message, Data: data, Pagination: &p})
}

// WithToken sends a response that also carries a session token.
func WithToken(w http.ResponseWriter, statusCode int, message string, data interface{}, token string) {
	Write(w, statusCode, Response{Message: message, Data: data, Token: token})
}

// Error sends an error response.
func Error(w http.ResponseWriter, err error) {
	apiErr, ok := apierror.As(err)
	if !ok {
		// Default to internal server error
		apiErr = apierror.InternalError("")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	w.Write(apiErr.ToJSON())
}

// Created sends a 201 Created response with the created resource.
func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, message, data)
}

// OK sends a 200 OK response.
func OK(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, message, data)
}
