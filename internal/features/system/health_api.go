package system

import (
	"plm-connector/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	Controller *HealthController
}

func NewHealthApi(controller *HealthController) api.Route {
	return &HealthApi{Controller: controller}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.Controller.Health)
}
