package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"wedding-planner/internal/auth"
	"wedding-planner/internal/config"
	"wedding-planner/internal/database"
	"wedding-planner/internal/db"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/seed"
)

func main() {
	password := flag.String("password", "password123", "password for the demo accounts")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed session tokens")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "seed"})
	defer log.Close()

	ctx := context.Background()
	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	store := db.New(bunDB)
	if cfg.Database.Driver == database.DriverSQLite {
		if err := store.CreateSchema(ctx); err != nil {
			log.Fatal("DATABASE", err.Error())
		}
	}

	users, err := seed.Run(ctx, store, *password, log)
	if err != nil {
		log.Fatal("SEED", err.Error())
	}

	if cfg.Auth.JWTSecret == "" {
		log.Warn("SEED", "SESSION_SECRET not set, skipping session tokens")
		return
	}
	for _, u := range users {
		token, err := auth.IssueSessionToken(cfg.Auth.JWTSecret, auth.ActingUser{ID: u.ID, Role: u.Role}, *tokenTTL)
		if err != nil {
			log.Fatal("AUTH", err.Error())
		}
		fmt.Printf("%-8s %-22s %s\n", u.Role, u.Email, token)
	}
}
