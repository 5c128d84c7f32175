package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	StorageLocal = "local"
	StorageCloud = "cloud"
)

type Config struct {
	Port               string
	WSPort             string
	StorageMode        string
	Timezone           string
	JWTSecret          string
	AdminNIP           string
	AdminPassword      string
	BatchSize          int
	AttachmentMaxBytes int
	DB                 DBConfig
	Mongo              MongoConfig
	OCR                OCRConfig
	SMTP               SMTPConfig
}

type DBConfig struct {
	Driver   string // sqlite | mysql | postgres
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // file sqlite
	LogMode  bool
}

type MongoConfig struct {
	URI      string
	Database string
}

type OCRConfig struct {
	URL  string
	Lang string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

func Load() Config {
	return Config{
		Port:               GetEnv("PORT", "3000"),
		WSPort:             GetEnv("WS_PORT", "3001"),
		StorageMode:        GetEnv("STORAGE_MODE", StorageLocal),
		Timezone:           GetEnv("APP_TIMEZONE", "Asia/Jakarta"),
		JWTSecret:          GetEnv("JWT_SECRET", "rahasia-negara-sangat-kuat"),
		AdminNIP:           GetEnv("ADMIN_NIP", "admin"),
		AdminPassword:      GetEnv("ADMIN_PASSWORD", "admin123"),
		BatchSize:          GetEnvAsInt("BATCH_SIZE", 400),
		AttachmentMaxBytes: GetEnvAsInt("ATTACHMENT_MAX_BYTES", 2*1024*1024),
		DB: DBConfig{
			Driver:   GetEnv("DB_DRIVER", "sqlite"),
			Host:     GetEnv("DB_HOST", "127.0.0.1"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "root"),
			Password: GetEnv("DB_PASSWORD", ""),
			Name:     GetEnv("DB_NAME", "rekap_kehadiran"),
			Path:     GetEnv("DB_PATH", "rekap-kehadiran.db"),
			LogMode:  GetEnvAsBool("DB_LOG_MODE", false),
		},
		Mongo: MongoConfig{
			URI:      GetEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: GetEnv("MONGO_DATABASE", "rekap_kehadiran"),
		},
		OCR: OCRConfig{
			URL:  GetEnv("OCR_URL", ""),
			Lang: GetEnv("OCR_LANG", "eng+ind"),
		},
		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetEnvAsInt("SMTP_PORT", 587),
			User:     GetEnv("SMTP_USER", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("SMTP_FROM", ""),
		},
	}
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("nilai boolean tidak valid untuk %s, pakai default %t", key, fallback)
		return fallback
	}
	return value
}

// SetupTimezone mengatur time.Local. Jika zona tidak tersedia di sistem,
// dipakai WIB (UTC+7).
func SetupTimezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: zona waktu %s tidak ditemukan, pakai UTC+7: %v", name, err)
		time.Local = time.FixedZone("WIB", 7*60*60)
	} else {
		time.Local = loc
	}
	return time.Local
}
