package recipe

import (
	"context"
	"errors"
	"strings"

	"github.com/apolloncare/cs618-project/domain"
	"github.com/apolloncare/cs618-project/entities"
	"github.com/apolloncare/cs618-project/pkg/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		List(ctx context.Context, query domain.RecipeQuery) ([]domain.RecipeResponse, error)
		GetByID(ctx context.Context, id string) (domain.RecipeResponse, error)
		Create(ctx context.Context, authorID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		Update(ctx context.Context, authorID string, id string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error)
		Delete(ctx context.Context, authorID string, id string) (int64, error)
		Rate(ctx context.Context, userID string, id string, value int) (domain.RecipeResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		userRepository   user.UserRepository
	}
)

func NewRecipeService(recipeRepository RecipeRepository, userRepository user.UserRepository) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
	}
}

// sortColumns whitelists the fields the list endpoint may order by.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"avgRating":   "avg_rating",
	"ratingCount": "rating_count",
	"title":       "title",
}

// normalizeOrder maps the caller-facing sort parameters onto a safe SQL
// order clause. Anything unrecognized falls back to createdAt descending.
func normalizeOrder(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
		sortOrder = domain.SortOrderDescending
	}

	direction := "desc"
	if sortOrder == domain.SortOrderAscending {
		direction = "asc"
	}
	return column + " " + direction
}

func (s *recipeService) List(ctx context.Context, query domain.RecipeQuery) ([]domain.RecipeResponse, error) {
	opts := ListOptions{
		Ingredient: query.Ingredient,
		Tag:        query.Tag,
		OrderBy:    normalizeOrder(query.SortBy, query.SortOrder),
	}

	if query.Author != "" {
		author, err := s.userRepository.GetUserByUsername(ctx, query.Author)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unknown author filters down to an empty feed rather
				// than an error.
				return []domain.RecipeResponse{}, nil
			}
			return nil, err
		}
		opts.AuthorID = &author.ID
	}

	recipes, err := s.recipeRepository.GetRecipes(ctx, opts)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toRecipeResponse(recipe))
	}
	return res, nil
}

func (s *recipeService) GetByID(ctx context.Context, id string) (domain.RecipeResponse, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	return toRecipeResponse(recipe), nil
}

func (s *recipeService) Create(ctx context.Context, authorID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Title:       req.Title,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
		Tags:        trimTags(req.Tags),
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	return toRecipeResponse(recipe), nil
}

func (s *recipeService) Update(ctx context.Context, authorID string, id string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID.String() != authorID {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	// Partial update: only fields present in the payload are applied.
	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Ingredients != nil {
		recipe.Ingredients = *req.Ingredients
	}
	if req.ImageURL != nil {
		recipe.ImageURL = *req.ImageURL
	}
	if req.Tags != nil {
		recipe.Tags = trimTags(*req.Tags)
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	return toRecipeResponse(recipe), nil
}

func (s *recipeService) Delete(ctx context.Context, authorID string, id string) (int64, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return 0, domain.ErrParseUUID
	}

	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return 0, domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to delete is a zero count, not a failure.
			return 0, nil
		}
		return 0, err
	}

	if recipe.AuthorID != authorUUID {
		return 0, domain.ErrUnauthorizedRecipeAccess
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID, authorUUID)
}

func (s *recipeService) Rate(ctx context.Context, userID string, id string, value int) (domain.RecipeResponse, error) {
	if value < 1 || value > 5 {
		return domain.RecipeResponse{}, domain.ErrInvalidRatingValue
	}

	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if err := s.recipeRepository.RateRecipe(ctx, recipeID, userUUID, value); err != nil {
		return domain.RecipeResponse{}, err
	}

	updated, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	return toRecipeResponse(updated), nil
}

func trimTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed = append(trimmed, strings.TrimSpace(tag))
	}
	return trimmed
}

func toRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	ratings := make([]domain.RatingResponse, 0, len(recipe.Ratings))
	for _, rating := range recipe.Ratings {
		ratings = append(ratings, domain.RatingResponse{
			UserID: rating.UserID.String(),
			Value:  rating.Value,
		})
	}

	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		AuthorID:    recipe.AuthorID.String(),
		Title:       recipe.Title,
		Ingredients: recipe.Ingredients,
		ImageURL:    recipe.ImageURL,
		Tags:        recipe.Tags,
		AvgRating:   recipe.AvgRating,
		RatingCount: recipe.RatingCount,
		CreatedAt:   recipe.CreatedAt,
		UpdatedAt:   recipe.UpdatedAt,
	}
	if len(ratings) > 0 {
		res.Ratings = ratings
	}
	return res
}
