package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rekap-kehadiran/config"
	"rekap-kehadiran/internal/database"
	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/notify"
	"rekap-kehadiran/internal/ocr"
	"rekap-kehadiran/internal/realtime"
	"rekap-kehadiran/internal/repository"
	"rekap-kehadiran/internal/routes"
	"rekap-kehadiran/internal/store"
	"rekap-kehadiran/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("1. Memulai aplikasi... Mencoba load .env...")
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	cfg := config.Load()
	config.SetupTimezone(cfg.Timezone)
	middleware.SetJWTSecret(cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("2. Mencoba koneksi ke penyimpanan...")
	backend, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("gagal membuka penyimpanan: %v", err)
	}
	defer backend.Close(context.Background())

	users := usecase.NewUserUsecase(repository.NewUserRepository(backend.DB))
	if err := users.EnsureAdmin(cfg.AdminNIP, cfg.AdminPassword); err != nil {
		log.Fatalf("gagal menyiapkan akun admin: %v", err)
	}

	st := backend.Store
	if err := st.Load(ctx); err != nil {
		log.Fatalf("gagal memuat data: %v", err)
	}
	employees, attendance, disciplinary := st.Snapshot().Counts()
	log.Printf("3. Data dimuat: %d karyawan, %d kehadiran, %d punishmen", employees, attendance, disciplinary)

	// Change feed
	hub := realtime.NewHub()
	go hub.Run(ctx)
	st.OnChange(func(c store.Change) {
		hub.Broadcast(realtime.EventStoreChanged, c)
	})

	if backend.Subscriber != nil {
		go func() {
			if err := st.Follow(ctx, backend.Subscriber); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("langganan cloud berhenti: %v", err)
			}
		}()
	}

	wsServer := realtime.NewServer(":"+cfg.WSPort, hub, func(token string) error {
		_, err := middleware.ParseToken(token)
		return err
	})
	go func() {
		log.Printf("Websocket siap di port :%s/ws", cfg.WSPort)
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("websocket server error: %v", err)
		}
	}()

	var recognizer ocr.Recognizer
	if cfg.OCR.URL != "" {
		recognizer = ocr.NewHTTPRecognizer(cfg.OCR.URL, cfg.OCR.Lang)
	}
	var mailer notify.Mailer
	if cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	}

	app := fiber.New(fiber.Config{BodyLimit: 16 * 1024 * 1024})

	// Middleware Global
	app.Use(cors.New())   // Agar API bisa diakses dari domain/port lain
	app.Use(logger.New()) // Agar log request muncul di terminal (Debugging)

	routes.SetupAuthRoutes(app, backend.DB)
	routes.SetupEmployeeRoutes(app, st)
	routes.SetupAttendanceRoutes(app, st)
	routes.SetupDashboardRoutes(app, st, mailer)
	routes.SetupDisciplinaryRoutes(app, st)
	routes.SetupOCRRoutes(app, st, recognizer, hub)

	go func() {
		<-ctx.Done()
		log.Println("Mematikan server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = wsServer.Shutdown(shutdownCtx)
		_ = app.ShutdownWithContext(shutdownCtx)
	}()

	log.Printf("4. Server siap! Menunggu request di port :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("server berhenti: %v", err)
	}
}
