// Command import-legacy memindahkan isi file backup JSON versi lama
// (employees, attendanceRecords, punishmentRecords) ke penyimpanan aktif.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"rekap-kehadiran/config"
	"rekap-kehadiran/internal/database"
	"rekap-kehadiran/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	path := flag.String("file", "backup.json", "file backup JSON lama")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}
	cfg := config.Load()
	config.SetupTimezone(cfg.Timezone)
	ctx := context.Background()

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("gagal membuka %s: %v", *path, err)
	}
	defer f.Close()

	backend, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("gagal membuka penyimpanan: %v", err)
	}
	defer backend.Close(ctx)

	src, err := repository.NewLegacySource(f)
	if err != nil {
		log.Fatalf("file backup tidak valid: %v", err)
	}

	// Muat data yang sudah ada agar id yang sama ditimpa, bukan digandakan
	if err := backend.Store.Load(ctx); err != nil {
		log.Fatalf("gagal memuat data: %v", err)
	}
	res, err := backend.Store.Restore(ctx, src)
	if err != nil {
		log.Printf("migrasi selesai dengan error: %v", err)
	}
	log.Printf("Migrasi selesai: %d karyawan, %d kehadiran, %d punishmen (%d batch gagal)",
		res.Employees, res.Attendance, res.Disciplinary, res.FailedBatches)
}
