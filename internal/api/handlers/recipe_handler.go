package handlers

import (
	"errors"

	"github.com/apolloncare/cs618-project/domain"
	"github.com/apolloncare/cs618-project/internal/api/presenters"
	"github.com/apolloncare/cs618-project/internal/utils/storage"
	"github.com/apolloncare/cs618-project/pkg/realtime"
	"github.com/apolloncare/cs618-project/pkg/recipe"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		RateRecipe(c *fiber.Ctx) error
		UploadRecipeImage(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
		hub           *realtime.Hub
		s3            storage.AwsS3
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate, hub *realtime.Hub, s3 storage.AwsS3) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
		hub:           hub,
		s3:            s3,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	query := domain.RecipeQuery{
		Author:     c.Query("author"),
		Ingredient: c.Query("ingredient"),
		Tag:        c.Query("tag"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}

	filters := 0
	for _, f := range []string{query.Author, query.Ingredient, query.Tag} {
		if f != "" {
			filters++
		}
	}
	if filters > 1 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMultipleFilters, domain.ErrMultipleFilters)
	}

	res, err := h.recipeService.List(c.Context(), query)
	if err != nil {
		log.Errorf("error listing recipes: %v", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	res, err := h.recipeService.GetByID(c.Context(), recipeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrParseUUID):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipeDetail, err)
		case errors.Is(err, domain.ErrRecipeNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetRecipeDetail, err)
		default:
			log.Errorf("error getting recipe %s: %v", recipeID, err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipeDetail, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.Create(c.Context(), userID, *req)
	if err != nil {
		log.Errorf("error creating recipe: %v", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateRecipe, err)
	}

	// Fire and forget: the creator's response never waits on fan-out.
	go h.hub.BroadcastRecipeCreated(domain.RecipeCreatedEvent{
		ID:        res.ID,
		Title:     res.Title,
		CreatedAt: res.CreatedAt,
		Author:    res.AuthorID,
	})

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")
	req := new(domain.UpdateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.Update(c.Context(), userID, recipeID, *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrParseUUID):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
		case errors.Is(err, domain.ErrRecipeNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateRecipe, err)
		case errors.Is(err, domain.ErrUnauthorizedRecipeAccess):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedUpdateRecipe, err)
		default:
			log.Errorf("error updating recipe %s: %v", recipeID, err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateRecipe, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	count, err := h.recipeService.Delete(c.Context(), userID, recipeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrParseUUID):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteRecipe, err)
		case errors.Is(err, domain.ErrUnauthorizedRecipeAccess):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedDeleteRecipe, err)
		default:
			log.Errorf("error deleting recipe %s: %v", recipeID, err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteRecipe, err)
		}
	}

	if count == 0 {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteRecipe, domain.ErrRecipeNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) RateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")
	req := new(domain.RateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateRecipe, err)
	}

	res, err := h.recipeService.Rate(c.Context(), userID, recipeID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRatingValue), errors.Is(err, domain.ErrParseUUID):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateRecipe, err)
		case errors.Is(err, domain.ErrRecipeNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRateRecipe, err)
		default:
			log.Errorf("error rating recipe %s: %v", recipeID, err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRateRecipe, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRateRecipe)
}

func (h *recipeHandler) UploadRecipeImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	url, err := h.s3.UploadFile(c.Context(), file, "recipe-images")
	if err != nil {
		log.Errorf("error uploading recipe image: %v", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, domain.UploadRecipeImageResponse{ImageURL: url}, fiber.StatusCreated, domain.MessageSuccessUploadImage)
}
