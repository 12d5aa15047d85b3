package settings

import (
	"errors"

	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsController struct {
	Service SettingsService
}

func NewSettingsController(service SettingsService) *SettingsController {
	return &SettingsController{
		Service: service,
	}
}

// GetSettings godoc
// @Summary Get connector settings
// @Description Credentials are masked when set
// @Tags settings
// @Produce json
// @Success 200 {object} Settings
// @Failure 500 {object} map[string]interface{}
// @Router /settings [get]
func (c *SettingsController) GetSettings(ctx *fiber.Ctx) error {
	settings, err := c.Service.GetMasked(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(settings)
}

// SaveSettings godoc
// @Summary Save connector settings
// @Description Full replace. Sending the masked placeholder keeps the stored secret.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body SaveSettingsRequest true "Settings"
// @Success 200 {object} Settings
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /settings [post]
func (c *SettingsController) SaveSettings(ctx *fiber.Ctx) error {
	var req SaveSettingsRequest
	if ok, err := middleware.ParseAndValidate(ctx, &req); !ok {
		return err
	}

	settings, err := c.Service.Save(ctx.UserContext(), req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(settings)
}

// TestConnection godoc
// @Summary Test an upstream connection
// @Description Logs in with the stored credentials and records the outcome
// @Tags testing
// @Produce json
// @Param system path string true "arena or cin7"
// @Success 200 {object} ConnectionTestResult
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /test/{system}/connection [post]
func (c *SettingsController) TestConnection(ctx *fiber.Ctx) error {
	result, err := c.Service.TestConnection(ctx.UserContext(), ctx.Params("system"))
	if err != nil {
		if errors.Is(err, ErrUnknownSystem) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}
