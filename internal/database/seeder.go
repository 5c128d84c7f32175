package database

import (
	"context"
	"log"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/repository"
	"rekap-kehadiran/internal/store"
	"rekap-kehadiran/internal/usecase"

	"gorm.io/gorm"
)

var sampleEmployees = []model.EmployeeFields{
	{Name: "Andi Pratama", NID: "198501012010011001", Bidang: "Sekretariat"},
	{Name: "Siti Rahmawati", NID: "198703152011012002", Bidang: "Keuangan"},
	{Name: "Budi Santoso", NID: "199002202014021003", Bidang: "Umum"},
	{Name: "Dewi Lestari", NID: "199208082015032004", Bidang: "Kepegawaian"},
	{Name: "Rizky Maulana", NID: "199511112019031005", Bidang: "Teknologi Informasi"},
}

// SeedAll membuat akun admin awal dan contoh karyawan jika data masih kosong.
func SeedAll(ctx context.Context, db *gorm.DB, st *store.Store, adminNIP, adminPassword string) error {
	// 1. Seed akun Admin
	users := usecase.NewUserUsecase(repository.NewUserRepository(db))
	if err := users.EnsureAdmin(adminNIP, adminPassword); err != nil {
		return err
	}

	// 2. Seed karyawan contoh
	if n, _, _ := st.Snapshot().Counts(); n > 0 {
		log.Printf("Lewati seed karyawan, sudah ada %d data", n)
		return nil
	}
	res, err := st.ImportEmployees(ctx, sampleEmployees)
	if err != nil {
		return err
	}
	log.Printf("Seed karyawan selesai: %d ditambahkan", res.Imported)
	return nil
}
