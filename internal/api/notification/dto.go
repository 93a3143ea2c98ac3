package notification

import "NutriVision/internal/entity"

const SnapshotEvent = "snapshot"

type NotificationListResponse struct {
	Data []entity.Notification `json:"data"`
}

// SnapshotMessage is the first frame written on a notification stream.
type SnapshotMessage struct {
	Event         string                `json:"event"`
	Notifications []entity.Notification `json:"notifications"`
}
