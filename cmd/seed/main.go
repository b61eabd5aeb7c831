// Command seed fills an empty installation with the demo school and the default settings.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/classgrid-backend/internal/config"
	"github.com/stemsi/classgrid-backend/internal/database"
	"github.com/stemsi/classgrid-backend/internal/logger"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
	"github.com/stemsi/classgrid-backend/internal/service"
)

func main() {
	withSettings := flag.Bool("settings", true, "Also write the default settings")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var persisters service.CatalogPersisters
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		persisters = service.PostgresPersisters(pool)

		if *withSettings {
			if err := repository.NewPostgresSettingRepository(pool).Upsert(ctx, model.DefaultSettings); err != nil {
				log.Fatal().Err(err).Msg("Failed to write default settings")
			}
			fmt.Printf("Wrote %d default settings\n", len(model.DefaultSettings))
		}
	case config.StorageRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		persisters = service.RedisPersisters(rdb)
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("Nothing to seed for this STORAGE_DRIVER")
	}

	fmt.Println("=== Seeding Demo School ===")

	catalog, err := service.OpenCatalog(ctx, persisters)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}
	seeded, err := service.SeedDemo(ctx, catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo data")
	}

	counts := catalog.Counts()
	if !seeded {
		fmt.Println("Every list already has data, nothing added.")
	}
	fmt.Printf("Teachers: %d, Subjects: %d, Sections: %d, Classes: %d\n",
		counts.Teachers, counts.Subjects, counts.Sections, counts.Classes)
}
