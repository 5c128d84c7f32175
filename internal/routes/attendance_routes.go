package routes

import (
	"rekap-kehadiran/internal/handler"
	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendanceRoutes(app *fiber.App, st *store.Store) {
	hdl := handler.NewAttendanceHandler(st)

	api := app.Group("/api/attendance", middleware.Auth)
	api.Get("/categories", hdl.Categories)
	api.Post("/:category", hdl.Submit)
}
