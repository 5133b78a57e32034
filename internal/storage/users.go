package storage

import (
	"errors"

	"gorm.io/gorm"

	"homechat/backend/internal/models"
)

// GetUserByID loads a user by primary key. Soft-deleted users are invisible
// to this lookup, so a deleted account resolves to ErrNotFound.
func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs loads the users with the given ids. Missing and
// soft-deleted ids are simply absent from the result.
func (s *Service) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser persists changes to a user record.
func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}
