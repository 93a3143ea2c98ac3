package entity

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationNetwork NotificationKind = "network"
)

type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"type"`
	Message   string           `json:"message"`
	Duration  int64            `json:"duration"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type NotificationEventType string

const (
	NotificationAdded     NotificationEventType = "added"
	NotificationDismissed NotificationEventType = "dismissed"
	NotificationExpired   NotificationEventType = "expired"
)

type NotificationEvent struct {
	Event        NotificationEventType `json:"event"`
	Notification Notification          `json:"notification"`
}
