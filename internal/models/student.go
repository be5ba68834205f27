package models

import "time"

// Student is a marketplace member who may act as buyer, provider, or both.
type Student struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	FirstName       string        `gorm:"size:100;not null" json:"first_name"`
	LastName        string        `gorm:"size:100;not null" json:"last_name"`
	Email           string        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone           string        `gorm:"size:32" json:"phone"`
	Major           string        `gorm:"size:120" json:"major"`
	Bio             string        `gorm:"type:text" json:"bio"`
	Campus          string        `gorm:"size:120;index" json:"campus"`
	ProfilePhotoURL string        `gorm:"size:512" json:"profile_photo_url"`
	AccountStatus   AccountStatus `gorm:"size:16;not null;default:active;index" json:"account_status"`
	VerifiedStatus  bool          `gorm:"not null;default:false" json:"verified_status"`
	JoinDate        time.Time     `gorm:"not null" json:"join_date"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// FullName joins first and last name the way the admin UI displays it.
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}
