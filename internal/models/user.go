package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User mirrors the marketplace identity record. This service only reads it:
// the handshake checks IsActive and the soft-delete flag before admitting a
// connection, and conversation summaries expose the public profile fields.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	FirstName string         `gorm:"size:100" json:"firstName"`
	LastName  string         `gorm:"size:100" json:"lastName"`
	Email     string         `gorm:"size:255;uniqueIndex" json:"email"`
	Role      string         `gorm:"size:32;default:member" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	AvatarURL string         `gorm:"size:255" json:"avatarUrl"`
}

// PublicUser is the profile shape embedded in conversation summaries and
// details.
type PublicUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

// Public strips the user down to the fields other participants may see.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

// FullName joins the name parts, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
