package api

import (
	"net/http"
	"time"

	"recipe_api/internal/api/handler"
	"recipe_api/internal/api/middleware"
	"recipe_api/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	auth *middleware.Auth,
	userService *service.UserService,
	tagService *service.TagService,
	ingredientService *service.IngredientService,
	recipeService *service.RecipeService,
	adminService *service.AdminService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		userHandler := handler.NewUserHandler(userService, auth)
		v1.Route("/user", userHandler.RegisterRoutes)

		v1.Route("/recipe", func(recipe chi.Router) {
			tagHandler := handler.NewTagHandler(tagService, auth)
			recipe.Route("/tags", tagHandler.RegisterRoutes)

			ingredientHandler := handler.NewIngredientHandler(ingredientService, auth)
			recipe.Route("/ingredients", ingredientHandler.RegisterRoutes)

			recipeHandler := handler.NewRecipeHandler(recipeService, auth)
			recipe.Route("/recipes", recipeHandler.RegisterRoutes)
		})

		// Staff-only record browser, outside the core API contract
		adminHandler := handler.NewAdminHandler(adminService, auth)
		v1.Route("/admin", adminHandler.RegisterRoutes)
	})

	return r
}
