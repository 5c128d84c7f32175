package routes

import (
	"rekap-kehadiran/internal/handler"
	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

func SetupDisciplinaryRoutes(app *fiber.App, st *store.Store) {
	hdl := handler.NewDisciplinaryHandler(st)

	api := app.Group("/api/disciplinary", middleware.Auth)
	api.Get("/", hdl.GetByMonth)
	api.Post("/", hdl.Create)
	api.Put("/:id", hdl.Update)
	api.Delete("/:id", hdl.Delete)
}
