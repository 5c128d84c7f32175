package routes

import (
	"rekap-kehadiran/internal/handler"
	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/repository"
	"rekap-kehadiran/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewUserRepository(db)
	uc := usecase.NewUserUsecase(repo)
	hdl := handler.NewAuthHandler(uc)

	app.Post("/api/login", hdl.Login)

	// Pendaftaran akun staf hanya oleh Admin
	app.Post("/api/users", middleware.Auth, middleware.Role(model.RoleAdmin), hdl.Register)
}
