package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is an end user of one institute's app, identified by the
// (phoneNumber, instituteId) pair. Created lazily on first login.
type Student struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Name        string    `json:"name,omitempty"`
	InstituteID uuid.UUID `json:"instituteId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
