package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is stored as a single letter; GenderUndisclosed is the default.
type Gender string

const (
	GenderMale        Gender = "m"
	GenderFemale      Gender = "f"
	GenderUndisclosed Gender = "x"
)

// Valid reports whether g is one of the known gender tags.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUndisclosed:
		return true
	}
	return false
}

// Label is the display text for g.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "undisclosed"
	}
}

// User is an identity record. It is created at sign up and never changed afterwards.
type User struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_users_name"`
	Password  string    `json:"-" db:"password" gorm:"type:text;not null"`
	Avatar    string    `json:"avatar" db:"avatar" gorm:"type:text;not null"`
	Gender    Gender    `json:"gender" db:"gender" gorm:"type:varchar(1);not null;default:'x'"`
	Bio       string    `json:"bio" db:"bio" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = id
	}
	if u.Gender == "" {
		u.Gender = GenderUndisclosed
	}
	return nil
}
