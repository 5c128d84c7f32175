package routes

import (
	"rekap-kehadiran/internal/handler"
	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

func SetupEmployeeRoutes(app *fiber.App, st *store.Store) {
	hdl := handler.NewEmployeeHandler(st)

	api := app.Group("/api/employees", middleware.Auth)
	api.Get("/", hdl.GetAll)
	api.Post("/", hdl.Create)
	api.Get("/template", hdl.Template)
	api.Put("/:id", hdl.Update)
	api.Delete("/:id", hdl.Delete)
	api.Get("/:id/history", hdl.History)

	// Khusus Admin
	adminOnly := middleware.Role(model.RoleAdmin)
	api.Post("/import", adminOnly, hdl.Import)
	api.Delete("/", adminOnly, hdl.DeleteAll)
}
