package handler

import (
	"encoding/json"
	"net/http"

	"recipe_api/internal/api/middleware"
	"recipe_api/internal/app/service"
	"recipe_api/internal/common"

	"github.com/go-chi/chi/v5"
)

// AdminHandler is the record browser for staff accounts. Separate from the
// core API contract.
type AdminHandler struct {
	adminService *service.AdminService
	auth         *middleware.Auth
}

func NewAdminHandler(adminService *service.AdminService, auth *middleware.Auth) *AdminHandler {
	return &AdminHandler{adminService: adminService, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticator)
	r.Use(h.auth.StaffOnly)
	r.Get("/users", h.listUsers)
	r.Get("/users/{userID}", h.getUser)
	r.Patch("/users/{userID}/active", h.setUserActive)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.adminService.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) setUserActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		common.RespondWithError(w, http.StatusBadRequest, "is_active is required")
		return
	}

	user, err := h.adminService.SetUserActive(r.Context(), chi.URLParam(r, "userID"), *req.IsActive)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
