package detection

import (
	"NutriVision/pkg/response"
	"fmt"
	"net/http"
)

var (
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrBadRequest          = response.NewError(http.StatusBadRequest, "bad request")

	ErrNoFile          = response.NewCodedError(http.StatusBadRequest, "NO_FILE", "no image file uploaded")
	ErrInvalidFileType = response.NewCodedError(http.StatusBadRequest, "INVALID_FILE_TYPE", "uploaded file is not an image")
	ErrFileTooLarge    = response.NewCodedError(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file size exceeds limit")
	ErrInvalidBase64   = response.NewCodedError(http.StatusBadRequest, "INVALID_BASE64", "invalid base64 image data")

	ErrBackendUnreachable = response.NewCodedError(http.StatusBadGateway, "BACKEND_UNREACHABLE", "detection backend is unreachable")
	ErrBackendTimeout     = response.NewCodedError(http.StatusGatewayTimeout, "BACKEND_TIMEOUT", "detection backend timed out")
	ErrMalformedResponse  = response.NewCodedError(http.StatusBadGateway, "MALFORMED_RESPONSE", "detection backend returned a malformed response")

	ErrUploadInProgress = response.NewCodedError(http.StatusConflict, "UPLOAD_IN_PROGRESS", "an upload is already being processed")
	ErrAnalysisNotFound = response.NewCodedError(http.StatusNotFound, "ANALYSIS_NOT_FOUND", "analysis not found")
)

// BackendError is a non-2xx answer from the detection backend. Detail holds
// the server supplied message when the body carried one.
type BackendError struct {
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("detection backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("detection backend returned status %d: %s", e.StatusCode, e.Detail)
}
