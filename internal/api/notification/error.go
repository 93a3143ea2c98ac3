package notification

import (
	"NutriVision/pkg/response"
	"net/http"
)

var (
	ErrNotificationNotFound = response.NewCodedError(http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "notification not found")
)
