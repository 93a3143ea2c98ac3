package detectionService

import (
	"NutriVision/internal/api/detection"
	"NutriVision/pkg/utils"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const errorPrefix = "Error processing the image. "

// notifyFailure publishes exactly one notification describing err.
func (s *detectionService) notifyFailure(err error) {
	var backendErr *detection.BackendError

	switch {
	case errors.Is(err, detection.ErrBackendUnreachable):
		s.notifier.Network(errorPrefix + fmt.Sprintf("Cannot connect to the server. Make sure the backend is running at %s", s.backendURL()))
	case errors.Is(err, detection.ErrBackendTimeout):
		s.notifier.Error(errorPrefix + "The request took too long. Try again with a smaller image.")
	case errors.As(err, &backendErr):
		detail := backendErr.Detail
		if detail == "" {
			detail = "Unknown error"
		}
		s.notifier.Error(errorPrefix + fmt.Sprintf("Server error: %d - %s", backendErr.StatusCode, detail))
	case errors.Is(err, detection.ErrFileTooLarge):
		s.notifier.Error(fmt.Sprintf("The image is too large. Please select an image smaller than %s", formatSize(s.utils.MaxFileSize())))
	case errors.Is(err, detection.ErrInvalidFileType):
		s.notifier.Error("Please select a valid image file (JPG, PNG, WebP)")
	case errors.Is(err, detection.ErrNoFile):
		s.notifier.Error("Please select an image to analyze")
	case errors.Is(err, detection.ErrInvalidBase64):
		s.notifier.Error("The image data could not be decoded")
	case errors.Is(err, detection.ErrMalformedResponse):
		s.notifier.Error(errorPrefix + "The server returned an unexpected response.")
	default:
		s.notifier.Error(errorPrefix + err.Error())
	}

	s.log.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Warn("Analysis failed")
}

// RejectUpload reports an upload refused before it reached the service, such
// as a form file failing its header checks, and returns err unchanged.
func (s *detectionService) RejectUpload(err error) error {
	s.notifyFailure(err)
	return err
}

func (s *detectionService) backendURL() string {
	if s.opts.BackendURL == "" {
		return "the configured address"
	}
	return s.opts.BackendURL
}

func formatSize(bytes int64) string {
	if bytes <= 0 {
		bytes = utils.DefaultMaxFileSize
	}
	switch {
	case bytes%(1024*1024) == 0:
		return fmt.Sprintf("%dMB", bytes/(1024*1024))
	case bytes < 1024*1024:
		return fmt.Sprintf("%dKB", bytes/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
	}
}
