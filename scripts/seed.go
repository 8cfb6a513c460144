//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dayo/shopstack/internal/auth"
	"github.com/dayo/shopstack/internal/database"
	"github.com/dayo/shopstack/internal/database/models"
	"github.com/dayo/shopstack/pkg/config"
	"github.com/dayo/shopstack/pkg/util"
)

// Seeds a demo organization with an owner account and a few products.
// Run with: go run scripts/seed.go
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry(), cfg.JWT.RefreshExpiry())
	authService := auth.NewService(db, jwtService, nil)

	username := os.Getenv("SEED_USERNAME")
	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	company := os.Getenv("SEED_COMPANY")

	if username == "" {
		username = "demo_owner"
	}
	if email == "" {
		email = "owner@example.com"
	}
	if password == "" {
		password = "demo123!"
	}
	if company == "" {
		company = "Demo Store"
	}

	resp, err := authService.Signup(context.Background(), auth.SignupInput{
		Username:    username,
		Email:       email,
		Password:    password,
		CompanyName: company,
		Preferences: []string{models.PreferenceCommerce},
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Seed user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create seed user: %v", err)
	}

	orgID := *resp.User.CurrentOrganizationID
	products := []models.Product{
		{OrganizationID: orgID, Name: "Wireless Mouse", SerialNumber: "SEED-0001", Category: models.CategoryElectronics, Quantity: 25, UnitPrice: 14.99, CreatedByID: &resp.User.ID},
		{OrganizationID: orgID, Name: "Desk Lamp", SerialNumber: "SEED-0002", Category: models.CategoryElectronics, Quantity: 10, UnitPrice: 32.50, CreatedByID: &resp.User.ID},
		{OrganizationID: orgID, Name: "First Aid Kit", SerialNumber: "SEED-0003", Category: models.CategoryHealth, Quantity: 5, UnitPrice: 21.00, CreatedByID: &resp.User.ID},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatalf("failed to seed product %s: %v", products[i].Name, err)
		}
	}

	fmt.Printf("Seeded organization %q\n", company)
	fmt.Printf("Login: %s / %s\n", username, password)
	fmt.Printf("Products: %d\n", len(products))
	fmt.Printf("Access token: %s\n", resp.Tokens.AccessToken)
}
