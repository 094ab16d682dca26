package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/aros-club/aros-api/config"
	"github.com/aros-club/aros-api/internal/application"
	"github.com/aros-club/aros-api/internal/container"
	"github.com/aros-club/aros-api/pkg/helpers"
)

// seed makes sure the bootstrap admin exists. Running it twice is harmless.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.StoreDriver == "memory" {
		log.Fatal("STORE_DRIVER=memory keeps nothing between runs; seed a persistent store instead")
	}
	cfg.MailSendEnabled = false
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	users := application.NewUserService(c.Users, nil, logger, cfg.SiteName, cfg.LoginURL)
	u, created, err := users.SeedAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if created {
		fmt.Printf("seeded admin: id=%s email=%s name=%s\n", u.ID, u.Email, u.Name)
		return
	}
	fmt.Printf("admin already present: id=%s email=%s admin=%v\n", u.ID, u.Email, u.IsAdmin)
}
