package system

import (
	"context"
	"time"

	"plm-connector/internal/config"
	"plm-connector/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	Ping  func(ctx context.Context) error
	AppID string
}

func NewHealthController(mongodb *database.MongodbDB, cfg *config.Config) *HealthController {
	return &HealthController{
		Ping: func(ctx context.Context) error {
			return mongodb.DB.Client().Ping(ctx, nil)
		},
		AppID: cfg.AppId,
	}
}

// Health godoc
// @Summary      Health check
// @Description  Reports service liveness and database reachability
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"app_id":   h.AppID,
			"database": "down",
			"error":    err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"app_id":   h.AppID,
		"database": "up",
	})
}
