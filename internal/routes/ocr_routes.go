package routes

import (
	"rekap-kehadiran/internal/handler"
	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/ocr"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

func SetupOCRRoutes(app *fiber.App, st *store.Store, recognizer ocr.Recognizer, events handler.Broadcaster) {
	hdl := handler.NewOCRHandler(st, recognizer, events)

	api := app.Group("/api/ocr", middleware.Auth)
	api.Post("/parse", hdl.Parse)
	api.Post("/apply", hdl.Apply)
	api.Post("/scan", hdl.Scan)
}
