package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/apolloncare/cs618-project/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// ListOptions is the normalized query the repository executes. At most
	// one filter field is set; OrderBy is a whitelisted column + direction.
	ListOptions struct {
		AuthorID   *uuid.UUID
		Ingredient string
		Tag        string
		OrderBy    string
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, opts ListOptions) ([]*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (int64, error)
		RateRecipe(ctx context.Context, recipeID uuid.UUID, userID uuid.UUID, value int) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Ratings").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// jsonElement wraps a single value as a one-element JSON array, the shape the
// jsonb containment operator expects on its right side.
func jsonElement(value string) string {
	b, _ := json.Marshal([]string{value})
	return string(b)
}

func (r *recipeRepository) GetRecipes(ctx context.Context, opts ListOptions) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe

	query := r.db.WithContext(ctx).Model(&entities.Recipe{}).Preload("Ratings")

	if opts.AuthorID != nil {
		query = query.Where("author_id = ?", *opts.AuthorID)
	}
	if opts.Ingredient != "" {
		query = query.Where("ingredients @> ?", jsonElement(opts.Ingredient))
	}
	if opts.Tag != "" {
		query = query.Where("tags @> ?", jsonElement(opts.Tag))
	}

	if err := query.Order(opts.OrderBy).Find(&recipes).Error; err != nil {
		return nil, err
	}

	return recipes, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&entities.Recipe{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// RateRecipe applies find-by-user-or-append semantics to the ratings of one
// recipe, then recomputes and persists the cached aggregates in the same
// transaction. Concurrent raters race on the cached aggregate with
// last-write-wins; the ratings rows themselves stay consistent through the
// unique (recipe, user) index.
func (r *recipeRepository) RateRecipe(ctx context.Context, recipeID uuid.UUID, userID uuid.UUID, value int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Rating
		err := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Value = value
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating := entities.Rating{
				ID:       uuid.New(),
				RecipeID: recipeID,
				UserID:   userID,
				Value:    value,
			}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		default:
			return err
		}

		var ratings []entities.Rating
		if err := tx.Where("recipe_id = ?", recipeID).Find(&ratings).Error; err != nil {
			return err
		}

		avg, count := recalcAggregates(ratings)

		return tx.Model(&entities.Recipe{}).
			Where("id = ?", recipeID).
			Updates(map[string]any{
				"avg_rating":   avg,
				"rating_count": count,
				"updated_at":   time.Now(),
			}).Error
	})
}

// recalcAggregates derives the cached rating fields from the full ratings
// sequence. Zero ratings yields avg 0, never NaN.
func recalcAggregates(ratings []entities.Rating) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating.Value
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}
