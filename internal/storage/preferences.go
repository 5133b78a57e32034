package storage

import (
	"fmt"
	"log"

	"homechat/backend/internal/models"
)

// GetOrCreatePreferences returns the user's notification preferences,
// creating the all-on default row on first access.
func (s *Service) GetOrCreatePreferences(userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := s.DB.Where(models.NotificationPreference{UserID: userID}).
		Attrs(models.DefaultNotificationPreference(userID)).
		FirstOrCreate(&pref).Error
	if err != nil {
		log.Printf("ERROR: Failed to load preferences for user %d: %v", userID, err)
		return nil, err
	}
	return &pref, nil
}

// UpdatePreferences applies the toggle changes to the user's preferences
// and saves the result. Unknown keys refuse the whole update.
func (s *Service) UpdatePreferences(userID uint, changes map[string]bool) (*models.NotificationPreference, error) {
	pref, err := s.GetOrCreatePreferences(userID)
	if err != nil {
		return nil, err
	}
	if err := pref.Apply(changes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.DB.Save(pref).Error; err != nil {
		log.Printf("ERROR: Failed to save preferences for user %d: %v", userID, err)
		return nil, err
	}
	return pref, nil
}
