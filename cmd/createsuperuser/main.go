// Command createsuperuser seeds a staff + superuser account. The admin
// surface requires a staff caller and the public API never mints one.
package main

import (
	"context"
	"flag"

	"recipe_api/internal/app/service"
	"recipe_api/internal/domain/repository"
	"recipe_api/internal/platform/config"
	"recipe_api/internal/platform/database"
	"recipe_api/internal/platform/logger"
)

func main() {
	email := flag.String("email", "", "email for the superuser (required)")
	password := flag.String("password", "", "password for the superuser (required)")
	name := flag.String("name", "", "display name")
	flag.Parse()

	log := logger.New(nil)

	if *email == "" || *password == "" {
		log.Fatal().Msg("-email and -password are required")
	}

	config.Load()
	database.Connect()
	defer database.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, database.DB); err != nil {
		log.Fatal().Err(err).Msg("Schema migration failed")
	}

	userRepo := repository.NewPgUserRepository(database.DB)
	// Token store is not needed to create an account.
	userService := service.NewUserService(userRepo, nil, config.AppConfig.BcryptCost, config.AppConfig.TokenTTL)

	user, err := userService.CreateSuperuser(ctx, *email, *password, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create superuser")
	}
	log.Info().Str("id", user.ID).Str("email", user.Email).Msg("Superuser created")
}
