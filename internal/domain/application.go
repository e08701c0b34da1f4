package domain

import "time"

// ApplicationStatus enumerates the processing states of an installation request.
type ApplicationStatus string

const (
	ApplicationStatusPending    ApplicationStatus = "Pending"
	ApplicationStatusInProgress ApplicationStatus = "In Progress"
	ApplicationStatusCompleted  ApplicationStatus = "Completed"
)

// MaxPhoneNumberLength mirrors the applications.phone_number column width.
const MaxPhoneNumberLength = 20

// ApplicationStatuses lists every valid status in display order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusInProgress,
		ApplicationStatusCompleted,
	}
}

// Valid reports whether s is one of the enumerated statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusInProgress, ApplicationStatusCompleted:
		return true
	}
	return false
}

// Application is a water-installation request owned by a user.
type Application struct {
	ID              int64
	UserID          int64
	Username        string
	PhoneNumber     string
	Description     string
	ApplicationDate time.Time
	Status          ApplicationStatus
}
