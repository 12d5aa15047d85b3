package settings

import (
	"plm-connector/internal/common/api"
	"plm-connector/internal/config"
	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsApi struct {
	Controller *SettingsController
	Config     *config.Config
}

func NewSettingsApi(controller *SettingsController, config *config.Config) api.Route {
	return &SettingsApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *SettingsApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(a.Config.SkipAuth)

	group := app.Group("/settings", auth)
	group.Get("/", a.Controller.GetSettings)
	group.Post("/", a.Controller.SaveSettings)

	app.Post("/test/:system/connection", auth, a.Controller.TestConnection)
}
