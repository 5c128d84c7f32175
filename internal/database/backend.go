package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"rekap-kehadiran/config"
	"rekap-kehadiran/internal/repository"
	"rekap-kehadiran/internal/store"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Backend mengumpulkan koneksi penyimpanan dan Domain Store yang dibangun
// di atasnya sesuai STORAGE_MODE.
type Backend struct {
	DB    *gorm.DB
	Store *store.Store
	// Subscriber hanya terisi pada mode cloud.
	Subscriber repository.Subscriber

	mongo *mongo.Client
}

func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	db, err := config.ConnectDB(cfg.DB)
	if err != nil {
		return nil, err
	}

	policy := repository.NewBatchPolicy(cfg.BatchSize)
	local := repository.NewGormAdapter(db, policy)
	b := &Backend{DB: db}

	opts := store.Options{
		Local:              local,
		Policy:             policy,
		MaxAttachmentBytes: cfg.AttachmentMaxBytes,
		Location:           time.Local,
	}

	switch cfg.StorageMode {
	case config.StorageLocal, "":
		log.Println("Mode penyimpanan: lokal")
	case config.StorageCloud:
		client, mdb, err := config.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.mongo = client
		remote := repository.NewMongoAdapter(mdb, policy)
		opts.Remote = remote
		if sub, ok := remote.(repository.Subscriber); ok {
			b.Subscriber = sub
		}
		log.Println("Mode penyimpanan: cloud (karyawan & kehadiran), punishmen tetap lokal")
	default:
		b.Close(ctx)
		return nil, fmt.Errorf("STORAGE_MODE tidak dikenal: %q", cfg.StorageMode)
	}

	b.Store = store.New(opts)
	return b, nil
}

func (b *Backend) Close(ctx context.Context) {
	if b.mongo != nil {
		if err := b.mongo.Disconnect(ctx); err != nil {
			log.Printf("gagal menutup koneksi mongo: %v", err)
		}
	}
	if sqlDB, err := b.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
