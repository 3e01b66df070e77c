package entities

import (
	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthorID    uuid.UUID `gorm:"not null" json:"author_id"`
	Title       string    `gorm:"not null" json:"title"`
	Ingredients []string  `gorm:"type:jsonb;serializer:json" json:"ingredients"`
	ImageURL    string    `gorm:"not null" json:"image_url"`
	Tags        []string  `gorm:"type:jsonb;serializer:json" json:"tags,omitempty"`
	AvgRating   float64   `gorm:"default:0" json:"avg_rating"`
	RatingCount int       `gorm:"default:0" json:"rating_count"`

	Author  *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Ratings []Rating `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
	Timestamp
}

// Rating holds one user's rating of a recipe. The service keeps at most one
// row per (recipe, user) pair; rating again replaces the existing value.
type Rating struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_rating_recipe_user;not null" json:"recipe_id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_rating_recipe_user;not null" json:"user_id"`
	Value    int       `gorm:"not null" json:"value"`

	Timestamp
}
