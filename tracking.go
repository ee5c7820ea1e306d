package leadbook

import (
	"context"
	"time"
)

// Status is the outreach state of a business.
type Status string

// Status values, in the order outreach usually progresses.
const (
	StatusNone             Status = "none"
	StatusContacted        Status = "contacted"
	StatusCreatingSite     Status = "creating-site"
	StatusScheduledMeeting Status = "scheduled-meeting"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusNone, StatusContacted, StatusCreatingSite, StatusScheduledMeeting}

// ParseStatus returns the Status named by s.
// Returns EINVALID for unknown values.
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", Errorf(EINVALID, "unknown status %q", s)
}

// DisplayName returns the human-readable name used in exports.
// Unknown values display as "None".
func (s Status) DisplayName() string {
	switch s {
	case StatusContacted:
		return "Contacted"
	case StatusCreatingSite:
		return "Creating Site"
	case StatusScheduledMeeting:
		return "Scheduled Meeting"
	default:
		return "None"
	}
}

// Tracking holds outreach status and notes for a saved business.
type Tracking struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Status     Status    `json:"status"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TrackingTable maps business IDs to their tracking entries.
type TrackingTable map[string]*Tracking

// StatusOf returns the status for a business, or StatusNone if it has no
// tracking entry.
func (t TrackingTable) StatusOf(businessID string) Status {
	if entry, ok := t[businessID]; ok && entry.Status != "" {
		return entry.Status
	}
	return StatusNone
}

// TrackingService represents a service for managing tracking entries.
type TrackingService interface {
	// SaveTracking creates or updates the tracking entry for a business.
	// Returns ENOTFOUND if the business does not exist.
	SaveTracking(ctx context.Context, businessID string, upd TrackingUpdate) (*Tracking, error)

	// FindTracking retrieves the tracking entry for a business.
	// Returns ENOTFOUND if the business has no tracking entry.
	FindTracking(ctx context.Context, businessID string) (*Tracking, error)

	// FindAllTracking retrieves every tracking entry keyed by business ID.
	FindAllTracking(ctx context.Context) (TrackingTable, error)
}

// TrackingUpdate represents fields that can be set on a tracking entry.
// Nil fields keep their current value, or the zero value on creation.
type TrackingUpdate struct {
	Status *Status `json:"status"`
	Notes  *string `json:"notes"`
}

// Validate returns an error if the update contains an unknown status.
func (u TrackingUpdate) Validate() error {
	if u.Status == nil {
		return nil
	}
	if _, err := ParseStatus(string(*u.Status)); err != nil {
		return err
	}
	return nil
}
