package entity

import "time"

// ConnectionStatus mirrors the connectivity indicator. Reachable stays nil
// until the first check finishes.
type ConnectionStatus struct {
	Reachable   *bool     `json:"reachable"`
	Checking    bool      `json:"checking"`
	LastChecked time.Time `json:"last_checked,omitempty"`
}
