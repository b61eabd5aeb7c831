package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/stemsi/classgrid-backend/internal/config"
	"github.com/stemsi/classgrid-backend/internal/database"
	"github.com/stemsi/classgrid-backend/internal/logger"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
)

func main() {
	var username, roleStr string
	flag.StringVar(&username, "username", "", "Admin username")
	flag.StringVar(&roleStr, "role", string(model.RoleAdministrator), "New role: administrator, scheduler or viewer")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if username == "" {
		flag.Usage()
		os.Exit(2)
	}
	role := model.RoleName(strings.ToLower(roleStr))
	if !role.Valid() {
		log.Fatal().Str("role", roleStr).Msg("Unknown role")
	}

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminRepo := repository.NewAdminRepository(pool)
	if err := adminRepo.UpdateRole(ctx, username, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Fatal().Str("username", username).Msg("Admin not found")
		}
		log.Fatal().Err(err).Msg("Failed to update role")
	}

	fmt.Printf("Admin '%s' now has role '%s' with %d permissions.\n", username, role, len(role.Permissions()))
	fmt.Println("The new permissions apply from the next login.")
}
