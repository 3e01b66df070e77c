package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessRateRecipe      = "recipe rated successfully"
	MessageSuccessUploadImage     = "image uploaded successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedRateRecipe      = "failed to rate recipe"
	MessageFailedUploadImage     = "failed to upload image"
	MessageFailedMultipleFilters = "query by only one of author, ingredient or tag"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrInvalidRatingValue       = errors.New("rating value must be an integer between 1 and 5")
	ErrMultipleFilters          = errors.New("only one filter may be applied at a time")
)

// Sort directions accepted by the list endpoint.
const (
	SortOrderAscending  = "ascending"
	SortOrderDescending = "descending"
)

type (
	// RecipeQuery carries at most one filter plus the sort options.
	// Enforcement of "at most one" happens at the handler layer; the
	// service only looks at whichever field is set.
	RecipeQuery struct {
		Author     string `json:"author,omitempty"`
		Ingredient string `json:"ingredient,omitempty"`
		Tag        string `json:"tag,omitempty"`
		SortBy     string `json:"sort_by,omitempty"`
		SortOrder  string `json:"sort_order,omitempty"`
	}

	CreateRecipeRequest struct {
		Title       string   `json:"title" validate:"required"`
		Ingredients []string `json:"ingredients" validate:"required,dive,required"`
		ImageURL    string   `json:"image_url" validate:"required"`
		Tags        []string `json:"tags" validate:"omitempty,dive,required"`
	}

	// UpdateRecipeRequest is a partial update: nil pointer fields are
	// left untouched on the stored recipe.
	UpdateRecipeRequest struct {
		Title       *string   `json:"title" validate:"omitempty,min=1"`
		Ingredients *[]string `json:"ingredients" validate:"omitempty,dive,required"`
		ImageURL    *string   `json:"image_url" validate:"omitempty,min=1"`
		Tags        *[]string `json:"tags" validate:"omitempty,dive,required"`
	}

	RateRecipeRequest struct {
		Value int `json:"value" validate:"required,min=1,max=5"`
	}

	RecipeResponse struct {
		ID          string           `json:"id"`
		AuthorID    string           `json:"author_id"`
		Title       string           `json:"title"`
		Ingredients []string         `json:"ingredients"`
		ImageURL    string           `json:"image_url"`
		Tags        []string         `json:"tags,omitempty"`
		Ratings     []RatingResponse `json:"ratings,omitempty"`
		AvgRating   float64          `json:"avg_rating"`
		RatingCount int              `json:"rating_count"`
		CreatedAt   time.Time        `json:"created_at"`
		UpdatedAt   time.Time        `json:"updated_at"`
	}

	RatingResponse struct {
		UserID string `json:"user_id"`
		Value  int    `json:"value"`
	}

	UploadRecipeImageResponse struct {
		ImageURL string `json:"image_url"`
	}

	// RecipeCreatedEvent is the realtime payload broadcast to every
	// connected client when a recipe is published.
	RecipeCreatedEvent struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		CreatedAt time.Time `json:"createdAt"`
		Author    string    `json:"author"`
	}
)
