package domain

import "time"

// Complaint is a message filed against an application, optionally answered by an operator.
// Response and RespondedAt are either both nil or both set.
type Complaint struct {
	ID                int64
	UserID            int64
	ApplicationID     int64
	Message           string
	Response          *string
	SubmittedAt       time.Time
	RespondedAt       *time.Time
	ApplicationStatus ApplicationStatus
}

// Answered reports whether an operator has responded.
func (c *Complaint) Answered() bool {
	return c.Response != nil
}
