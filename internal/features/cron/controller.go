package cron_feature

import (
	"github.com/gofiber/fiber/v2"
)

type SchedulerController struct {
	Scheduler *Scheduler
}

func NewSchedulerController(scheduler *Scheduler) *SchedulerController {
	return &SchedulerController{
		Scheduler: scheduler,
	}
}

// GetStatus godoc
// @Summary Get sync status
// @Description Scheduler state, whether a pass is running and the last successful sync time
// @Tags sync
// @Produce json
// @Success 200 {object} SyncStatus
// @Failure 500 {object} map[string]interface{}
// @Router /sync/status [get]
func (c *SchedulerController) GetStatus(ctx *fiber.Ctx) error {
	status, err := c.Scheduler.Status(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(status)
}
