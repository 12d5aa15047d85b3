package admin

import (
	"plm-connector/internal/common/api"
	"plm-connector/internal/config"
	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AdminApi struct {
	Controller *AdminController
	config     *config.Config
}

func NewAdminApi(config *config.Config, controller *AdminController) api.Route {
	return &AdminApi{
		config:     config,
		Controller: controller,
	}
}

// Setup registers admin-related routes
func (h *AdminApi) Setup(app *fiber.App) {
	app.Get("/admin/logs",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.AdminMiddleware(),
		h.Controller.GetLogs,
	)
}
