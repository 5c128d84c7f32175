package main

import (
	"context"
	"log"

	"rekap-kehadiran/config"
	"rekap-kehadiran/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("Memulai Database Seeding...")

	// Load .env manual karena ini script terpisah
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	cfg := config.Load()
	config.SetupTimezone(cfg.Timezone)
	ctx := context.Background()

	backend, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("gagal membuka penyimpanan: %v", err)
	}
	defer backend.Close(ctx)

	if err := backend.Store.Load(ctx); err != nil {
		log.Fatalf("gagal memuat data: %v", err)
	}

	log.Println("Menjalankan SeedAll...")
	if err := database.SeedAll(ctx, backend.DB, backend.Store, cfg.AdminNIP, cfg.AdminPassword); err != nil {
		log.Fatalf("seeding gagal: %v", err)
	}
	log.Println("Seeding Selesai!")
}
