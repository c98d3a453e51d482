package database

import (
	"database/sql"
	"log"
	"time"

	"recipe_api/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

// Connect opens the pool and blocks until the database answers a ping,
// retrying once per second. The API container routinely starts before
// Postgres does.
func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	const maxAttempts = 30
	for attempt := 1; ; attempt++ {
		if err = DB.Ping(); err == nil {
			break
		}
		if attempt >= maxAttempts {
			log.Fatalf("Error connecting to database after %d attempts: %v", maxAttempts, err)
		}
		log.Printf("Database unavailable, waiting 1 sec... (%v)", err)
		time.Sleep(1 * time.Second)
	}

	log.Println("Successfully connected to PostgreSQL database!")
}

func Close() {
	if DB != nil {
		DB.Close()
		log.Println("Database connection closed.")
	}
}
