package handler

import (
	"encoding/json"
	"net/http"

	"recipe_api/internal/api/middleware"
	"recipe_api/internal/app/service"
	"recipe_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type IngredientHandler struct {
	ingredientService *service.IngredientService
	auth              *middleware.Auth
}

func NewIngredientHandler(ingredientService *service.IngredientService, auth *middleware.Auth) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService, auth: auth}
}

func (h *IngredientHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticator)
	r.Get("/", h.list)
	r.Post("/", h.create)
}

func (h *IngredientHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	ingredients, err := h.ingredientService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ingredients)
}

func (h *IngredientHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	ingredient, err := h.ingredientService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, ingredient)
}
