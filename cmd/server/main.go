package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe_api/internal/api"
	"recipe_api/internal/api/middleware"
	"recipe_api/internal/app/service"
	"recipe_api/internal/domain/repository"
	"recipe_api/internal/platform/config"
	"recipe_api/internal/platform/database"
	"recipe_api/internal/platform/logger"
	"recipe_api/internal/platform/tokenstore"
)

func main() {
	log := logger.New(nil)

	// 1. Load Configuration
	config.Load()
	log.Info().Msg("Configuration loaded")

	// 2. Initialize Database
	database.Connect()
	defer database.Close()

	if err := database.Migrate(context.Background(), database.DB); err != nil {
		log.Fatal().Err(err).Msg("Schema migration failed")
	}
	log.Info().Msg("Database ready")

	// 3. Initialize Redis (token store)
	tokenstore.ConnectRedis()
	defer tokenstore.CloseRedis()
	tokens := tokenstore.NewRedisTokenStore(tokenstore.RDB)

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	tagRepo := repository.NewPgTagRepository(database.DB)
	ingredientRepo := repository.NewPgIngredientRepository(database.DB)
	recipeRepo := repository.NewPgRecipeRepository(database.DB)

	// 5. Initialize Services
	userService := service.NewUserService(userRepo, tokens, config.AppConfig.BcryptCost, config.AppConfig.TokenTTL)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, database.DB)
	adminService := service.NewAdminService(userRepo)

	// 6. Initialize Router & HTTP Server
	auth := middleware.NewAuth(tokens, userRepo)
	router := api.NewRouter(auth, userService, tagService, ingredientService, recipeService, adminService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", config.AppConfig.APIPort).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Could not listen")
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server stopped gracefully")
}
