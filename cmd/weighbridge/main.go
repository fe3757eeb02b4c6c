package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"weighbridge/frontend/receipts"
	"weighbridge/infrastructure/auth"
	httpserver "weighbridge/infrastructure/http"
	"weighbridge/infrastructure/kv"
	"weighbridge/infrastructure/sqlite"
)

func main() {
	_ = godotenv.Load()

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "weighbridge.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	kvStore := kv.NewStore(db)
	store, err := receipts.NewStore(context.Background(), kvStore)
	if err != nil {
		log.Fatalf("load receipts: %v", err)
	}

	passwordHash := ""
	if password := os.Getenv("APP_PASSWORD"); password != "" {
		passwordHash, err = auth.HashPassword(password, nil)
		if err != nil {
			log.Fatalf("hash app password: %v", err)
		}
	}

	server := httpserver.NewServer(addr, db, kvStore, store, auth.NewSessionStore(), passwordHash)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("weighbridge listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
