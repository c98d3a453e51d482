package handler

import (
	"encoding/json"
	"net/http"

	"recipe_api/internal/api/middleware"
	"recipe_api/internal/app/service"
	"recipe_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type TagHandler struct {
	tagService *service.TagService
	auth       *middleware.Auth
}

func NewTagHandler(tagService *service.TagService, auth *middleware.Auth) *TagHandler {
	return &TagHandler{tagService: tagService, auth: auth}
}

// Tags expose list and create only; chi answers 405 for anything else.
func (h *TagHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticator)
	r.Get("/", h.list)
	r.Post("/", h.create)
}

func (h *TagHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	tags, err := h.tagService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	tag, err := h.tagService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, tag)
}
