// Command seedconfig writes the default receipt template into a fresh
// database without clobbering an existing one.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"weighbridge/frontend/settings"
	"weighbridge/infrastructure/kv"
	"weighbridge/infrastructure/sqlite"
	"weighbridge/models"
)

func main() {
	_ = godotenv.Load()

	dbPath := getenv("SQLITE_PATH", "weighbridge.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := sqlite.ApplyMigrations(ctx, db, ""); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	kvStore := kv.NewStore(db)
	if _, found, err := kvStore.Get(ctx, settings.ConfigKey); err != nil {
		log.Fatalf("read template config: %v", err)
	} else if found {
		fmt.Println("template config already present, leaving it alone")
		return
	}

	if err := settings.SaveTemplateConfig(ctx, kvStore, models.DefaultTemplateConfig()); err != nil {
		log.Fatalf("seed template config: %v", err)
	}
	fmt.Println("seeded default template config")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
