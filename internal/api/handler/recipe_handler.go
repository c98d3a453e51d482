package handler

import (
	"encoding/json"
	"net/http"

	"recipe_api/internal/api/middleware"
	"recipe_api/internal/app/service"
	"recipe_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	auth          *middleware.Auth
}

func NewRecipeHandler(recipeService *service.RecipeService, auth *middleware.Auth) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, auth: auth}
}

func (h *RecipeHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticator)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{recipeID}", h.get)
	r.Put("/{recipeID}", h.update)
	r.Patch("/{recipeID}", h.partialUpdate)
	r.Delete("/{recipeID}", h.delete)
}

func (h *RecipeHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	recipes, err := h.recipeService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	recipe, err := h.recipeService.Get(r.Context(), userID, chi.URLParam(r, "recipeID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	recipe, err := h.recipeService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) update(w http.ResponseWriter, r *http.Request) {
	h.doUpdate(w, r, false)
}

func (h *RecipeHandler) partialUpdate(w http.ResponseWriter, r *http.Request) {
	h.doUpdate(w, r, true)
}

func (h *RecipeHandler) doUpdate(w http.ResponseWriter, r *http.Request, partial bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	recipe, err := h.recipeService.Update(r.Context(), userID, chi.URLParam(r, "recipeID"), req, partial)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := h.recipeService.Delete(r.Context(), userID, chi.URLParam(r, "recipeID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
