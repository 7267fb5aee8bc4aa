package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/api/middleware"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

var errHistoryDisabled = errors.New("recipe history is not configured")

type RecipeGenerator interface {
	Generate(ctx context.Context, req recipe.GenerateRequest) (*recipe.Recipe, error)
}

type RecipeStore interface {
	Save(ctx context.Context, r *recipe.Recipe) error
	List(ctx context.Context, limit int) ([]recipe.Recipe, error)
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type RecipeList struct {
	Recipes []recipe.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}

type Handler struct {
	generator RecipeGenerator
	store     RecipeStore
	logger    *zerolog.Logger
}

// NewHandler wires the HTTP handlers; store may be nil when history is disabled.
func NewHandler(generator RecipeGenerator, store RecipeStore, logger *zerolog.Logger) *Handler {
	return &Handler{
		generator: generator,
		store:     store,
		logger:    logger,
	}
}

// POST /api/v1/recipes
// Body: recipe.GenerateRequest
// Returns: recipe.Recipe
func (h *Handler) GenerateRecipe(req *restful.Request, resp *restful.Response) {
	var genRequest recipe.GenerateRequest
	if err := req.ReadEntity(&genRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("request_id", genRequest.RequestID).
		Str("ingredient", genRequest.Ingredient).
		Msg("Start recipe generation")

	ctx := req.Request.Context()
	generated, err := h.generator.Generate(ctx, genRequest)
	if err != nil {
		if errors.Is(err, recipe.ErrEmptyIngredient) {
			middleware.HandleError(resp, err, http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("Recipe generation failed")
		middleware.HandleError(resp, err, http.StatusBadGateway)
		return
	}

	if h.store != nil {
		if err := h.store.Save(ctx, generated); err != nil {
			h.logger.Error().Err(err).Str("recipe_id", generated.ID).Msg("Failed to save recipe")
		}
	}

	h.logger.Info().
		Str("recipe_id", generated.ID).
		Str("provider", generated.Provider).
		Msg("Recipe generation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, generated)
}

// GET /api/v1/recipes?limit=N
func (h *Handler) ListRecipes(req *restful.Request, resp *restful.Response) {
	if h.store == nil {
		middleware.HandleError(resp, errHistoryDisabled, http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if limitStr := req.QueryParameter("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			middleware.HandleError(resp, err, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	recipes, err := h.store.List(req.Request.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list recipes")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	resp.WriteHeaderAndEntity(http.StatusOK, RecipeList{Recipes: recipes, Count: len(recipes)})
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
