package dto

import (
	"errors"

	"github.com/supplychain/backend/internal/domain/shared"
)

// Response is the envelope of every API response. It is the wire form of the
// success/error union: Success is true exactly when Error is nil.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one invalid field, keyed by its JSON name
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewPaginatedResponse puts the page items in Data and the counters in Meta
func NewPaginatedResponse[T any](p *shared.Paginated[T]) Response {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return NewSuccessResponseWithMeta(items, p.Total, p.Page, p.PageSize)
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates an ERR_VALIDATION response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}

// ErrorResponseFor converts err to an error envelope and its HTTP status.
// Domain errors keep their message; anything else becomes a generic
// ERR_INTERNAL so internal details never reach the client.
func ErrorResponseFor(err error, requestID string) (int, Response) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		code := NormalizeErrorCode(de.Code)
		if code == ErrCodeInternal {
			return GetHTTPStatus(code), NewErrorResponseWithRequestID(code, "An unexpected error occurred", requestID)
		}
		return DomainErrorStatus(code), NewErrorResponseWithRequestID(code, de.Message, requestID)
	}
	return GetHTTPStatus(ErrCodeInternal), NewErrorResponseWithRequestID(ErrCodeInternal, "An unexpected error occurred", requestID)
}

// FromResult converts a Result to the envelope and HTTP status
func FromResult[T any](r shared.Result[T], successStatus int, requestID string) (int, Response) {
	if r.Err != nil {
		return ErrorResponseFor(r.Err, requestID)
	}
	return successStatus, NewSuccessResponse(r.Value)
}

// ListRequest represents common list/pagination query parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// Normalize fills defaults for missing paging values
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
}

// CountData wraps a single count
type CountData struct {
	Count int64 `json:"count"`
}

// MessageData wraps an informational message
type MessageData struct {
	Message string `json:"message"`
}
