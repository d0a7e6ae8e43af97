package main

import (
	"context"
	"flag"
	"log"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/config"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/storage"
	"buildhub-state/pkg/database"
)

// migrate creates the postgres state table. With -purge it also removes the
// persisted session so the next start is signed out.
func main() {
	purge := flag.Bool("purge", false, "remove the persisted session and auth keys")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database: ", err)
	}

	kv, err := storage.NewGormStore(db, cfg.Storage.KeyPrefix)
	if err != nil {
		log.Fatal("Error: Migration failed: ", err)
	}
	defer kv.Close()
	log.Println("State table is up to date")

	if *purge {
		keys := append([]string{appstate.PersistKey}, auth.StorageKeys...)
		if err := kv.RemoveItem(context.Background(), keys...); err != nil {
			log.Fatal("Error: Purge failed: ", err)
		}
		log.Printf("Removed %d keys", len(keys))
	}
}
