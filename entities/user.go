package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `json:"-"`
	IsVerified bool      `json:"is_verified"`

	Recipes []Recipe `gorm:"foreignKey:AuthorID" json:"recipes,omitempty"`
	Timestamp
}
