package models

import "gorm.io/gorm"

// Default values applied to optional profile fields on creation.
const (
	DefaultPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
	DefaultPhone = "+91"
	DefaultBio   = "bio"
)

// User represents a registered account holder.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(255)" validate:"required"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required"` // Hash only, no json tag for security
	Photo      string `json:"photo" gorm:"type:varchar(512)"`
	Phone      string `json:"phone" gorm:"type:varchar(50)"`
	Bio        string `json:"bio" gorm:"type:varchar(250)" validate:"max=250"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Profile is the public projection of a User, safe to return to clients.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

// PublicProfile returns the public fields of the user. The password hash is
// never part of it.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
		Phone: u.Phone,
		Bio:   u.Bio,
	}
}
