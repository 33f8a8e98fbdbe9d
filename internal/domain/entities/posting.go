package entities

import (
	"strings"
	"time"
)

// PostingIntent is what a user submits to offer or request a ride, before
// validation. ScheduledAt is the raw text from the form.
type PostingIntent struct {
	Role         Role   `json:"role"`
	Pickup       string `json:"pickup"`
	Destination  string `json:"destination"`
	ScheduledAt  string `json:"scheduled_at"`
	Seats        int    `json:"seats"`
	Restrictions string `json:"restrictions"`
}

// scheduleLayouts are tried in order. The last two are what HTML datetime-local
// and date inputs submit.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseSchedule parses the scheduled time of a ride. Layouts without a zone
// are read as UTC.
func ParseSchedule(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range scheduleLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ValidatePostingIntent turns an intent into a new, unpersisted RideRecord.
// user is the current user; nil means nobody is signed in. The returned record
// has no ID yet.
func ValidatePostingIntent(intent PostingIntent, user *User) (RideRecord, error) {
	if user == nil {
		return RideRecord{}, NewValidationError(KindNotAuthenticated, nil)
	}
	if !intent.Role.Valid() {
		return RideRecord{}, NewValidationError(KindInvalidRole, nil)
	}
	if strings.TrimSpace(intent.Pickup) == "" || strings.TrimSpace(intent.Destination) == "" {
		return RideRecord{}, NewValidationError(KindMissingLocation, nil)
	}
	scheduledAt, err := ParseSchedule(intent.ScheduledAt)
	if err != nil {
		return RideRecord{}, NewValidationError(KindInvalidDate, err)
	}
	if intent.Seats < 1 {
		return RideRecord{}, NewValidationError(KindInvalidSeats, nil)
	}

	now := time.Now()
	return RideRecord{
		OwnerID:          user.ID,
		Role:             intent.Role,
		Pickup:           intent.Pickup,
		Destination:      intent.Destination,
		ScheduledAt:      scheduledAt,
		Seats:            intent.Seats,
		Restrictions:     intent.Restrictions,
		ContactProfile:   SnapshotContactProfile(user),
		Status:           InitialStatus(intent.Role),
		PassengersOfRide: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
