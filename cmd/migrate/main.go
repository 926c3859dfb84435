package main

import (
	"log"

	"github.com/sgeraldes/hidock-next-sub000/internal/config"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	// Lookup paths used by the sync check and the cleanup scan.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_recordings_tier_date ON recordings (storage_tier, date_recorded)`,
		`CREATE INDEX IF NOT EXISTS idx_synced_files_local ON synced_files (local_filename)`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Printf("Warn: %v", err)
		}
	}

	log.Println("Migration completed.")
}
