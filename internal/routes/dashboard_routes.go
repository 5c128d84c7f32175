package routes

import (
	"rekap-kehadiran/internal/handler"
	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/notify"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, st *store.Store, mailer notify.Mailer) {
	hdl := handler.NewDashboardHandler(st)
	reportHdl := handler.NewReportHandler(st, mailer)

	api := app.Group("/api/dashboard", middleware.Auth)
	api.Get("/", hdl.GetStats)
	api.Get("/export", reportHdl.Export)
	api.Post("/email", reportHdl.Email)
}
