package models

import (
	"time"

	"github.com/google/uuid"
)

// Institute statuses.
const (
	InstituteStatusActive   = "active"
	InstituteStatusInactive = "inactive"
)

// Institute represents a coaching institute — the tenant boundary for all
// batch and student data. Requests are scoped to an institute either by its
// API key or by its id.
type Institute struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Logo         string    `json:"logo,omitempty"`
	PrimaryColor string    `json:"primaryColor,omitempty"`
	APIKey       string    `json:"apiKey"`
	AdminEmail   string    `json:"adminEmail,omitempty"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
