package dto

import (
	"time"

	"github.com/waterworks/water-service/internal/domain"
)

// CreateApplicationRequest payload.
type CreateApplicationRequest struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	Description string `json:"description"`
}

// ApplicationResponse is the listing shape; User carries the owner's username.
type ApplicationResponse struct {
	ID              int64                    `json:"id"`
	User            string                   `json:"user"`
	PhoneNumber     string                   `json:"phone_number"`
	Description     string                   `json:"description"`
	ApplicationDate time.Time                `json:"application_date"`
	Status          domain.ApplicationStatus `json:"status"`
}

// UpdateStatusRequest is the console payload for moving an application.
type UpdateStatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}
