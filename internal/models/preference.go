package models

import (
	"fmt"
	"time"
)

// NotificationPreference holds a user's per-category delivery toggles.
// A row is created lazily with every toggle on; absence of a row means
// "deliver everything".
type NotificationPreference struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	UpdatedAt time.Time `json:"updatedAt"`

	PushMessages bool `gorm:"not null;default:true" json:"push_messages"`
	PushBookings bool `gorm:"not null;default:true" json:"push_bookings"`
	PushReviews  bool `gorm:"not null;default:true" json:"push_reviews"`
	PushSystem   bool `gorm:"not null;default:true" json:"push_system"`

	EmailMessages bool `gorm:"not null;default:true" json:"email_messages"`
	EmailBookings bool `gorm:"not null;default:true" json:"email_bookings"`
	EmailReviews  bool `gorm:"not null;default:true" json:"email_reviews"`
	EmailSystem   bool `gorm:"not null;default:true" json:"email_system"`
}

// DefaultNotificationPreference returns the all-on preference set used when
// a user has never saved one.
func DefaultNotificationPreference(userID uint) NotificationPreference {
	return NotificationPreference{
		UserID:        userID,
		PushMessages:  true,
		PushBookings:  true,
		PushReviews:   true,
		PushSystem:    true,
		EmailMessages: true,
		EmailBookings: true,
		EmailReviews:  true,
		EmailSystem:   true,
	}
}

// preferenceAliases maps every accepted spelling of a preference key to its
// canonical snake_case name. Older clients send camelCase; both are kept
// working on purpose.
var preferenceAliases = map[string]string{
	"push_messages":  "push_messages",
	"pushMessages":   "push_messages",
	"push_bookings":  "push_bookings",
	"pushBookings":   "push_bookings",
	"push_reviews":   "push_reviews",
	"pushReviews":    "push_reviews",
	"push_system":    "push_system",
	"pushSystem":     "push_system",
	"email_messages": "email_messages",
	"emailMessages":  "email_messages",
	"email_bookings": "email_bookings",
	"emailBookings":  "email_bookings",
	"email_reviews":  "email_reviews",
	"emailReviews":   "email_reviews",
	"email_system":   "email_system",
	"emailSystem":    "email_system",
}

// CanonicalPreferenceKey resolves a client-supplied key to its canonical
// form. The second return is false for unknown keys.
func CanonicalPreferenceKey(key string) (string, bool) {
	canonical, ok := preferenceAliases[key]
	return canonical, ok
}

// Apply sets the toggles named in changes, resolving aliases first. An
// unknown key fails the whole update so a typo cannot be silently dropped.
func (p *NotificationPreference) Apply(changes map[string]bool) error {
	for key, value := range changes {
		canonical, ok := CanonicalPreferenceKey(key)
		if !ok {
			return fmt.Errorf("unknown preference key %q", key)
		}
		switch canonical {
		case "push_messages":
			p.PushMessages = value
		case "push_bookings":
			p.PushBookings = value
		case "push_reviews":
			p.PushReviews = value
		case "push_system":
			p.PushSystem = value
		case "email_messages":
			p.EmailMessages = value
		case "email_bookings":
			p.EmailBookings = value
		case "email_reviews":
			p.EmailReviews = value
		case "email_system":
			p.EmailSystem = value
		}
	}
	return nil
}

// AllowsPush reports whether push delivery is enabled for the notification
// type. Unknown types are delivered; gating only ever narrows.
func (p *NotificationPreference) AllowsPush(notificationType string) bool {
	switch notificationType {
	case NotificationTypeMessage:
		return p.PushMessages
	case NotificationTypeBooking:
		return p.PushBookings
	case NotificationTypeReview:
		return p.PushReviews
	case NotificationTypeSystem:
		return p.PushSystem
	}
	return true
}

// AllowsEmail reports whether email delivery is enabled for the
// notification type.
func (p *NotificationPreference) AllowsEmail(notificationType string) bool {
	switch notificationType {
	case NotificationTypeMessage:
		return p.EmailMessages
	case NotificationTypeBooking:
		return p.EmailBookings
	case NotificationTypeReview:
		return p.EmailReviews
	case NotificationTypeSystem:
		return p.EmailSystem
	}
	return true
}
