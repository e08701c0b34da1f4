package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/waterworks/water-service/internal/domain"
)

// ErrInvalidID is returned when an id is neither a JSON number nor a numeric string.
var ErrInvalidID = errors.New("invalid id")

// FlexibleID accepts 12 as well as "12"; null and "" leave it unset.
type FlexibleID struct {
	Value int64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexibleID{}
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidID
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = FlexibleID{}
			return nil
		}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ErrInvalidID
	}
	*f = FlexibleID{Value: value, Set: value != 0}
	return nil
}

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Username      string     `json:"username"`
	ApplicationID FlexibleID `json:"application_id"`
	Message       string     `json:"message"`
}

// ComplaintResponse is the listing shape. Status is the application's current status.
type ComplaintResponse struct {
	ID            int64                    `json:"id"`
	ApplicationID int64                    `json:"application_id"`
	Message       string                   `json:"message"`
	Response      *string                  `json:"response"`
	SubmittedAt   time.Time                `json:"submitted_at"`
	RespondedAt   *time.Time               `json:"responded_at"`
	Status        domain.ApplicationStatus `json:"status"`
}

// AdminComplaintResponse adds the filer to the listing shape.
type AdminComplaintResponse struct {
	ComplaintResponse
	UserID int64 `json:"user_id"`
}

// RespondComplaintRequest is the console payload for answering.
type RespondComplaintRequest struct {
	Response string `json:"response"`
}
