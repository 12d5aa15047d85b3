package admin

import (
	"plm-connector/internal/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLogLines = 100
	maxLogLines     = 5000
)

// AdminController serves operator diagnostics.
type AdminController struct {
	Buffer *logger.LogBuffer
}

// NewAdminController returns the pointer to the struct
func NewAdminController(buffer *logger.LogBuffer) *AdminController {
	return &AdminController{Buffer: buffer}
}

// GetLogs
// @Summary      Fetch recent logs
// @Description  Most recent rendered log lines from the in-memory buffer, oldest first
// @Tags         admin
// @Produce      json
// @Param        lines  query     int  false  "Number of lines (default 100)"
// @Success      200    {object}  map[string]interface{}
// @Router       /admin/logs [get]
func (ctrl *AdminController) GetLogs(c *fiber.Ctx) error {
	lines := c.QueryInt("lines", defaultLogLines)
	if lines <= 0 {
		lines = defaultLogLines
	}
	if lines > maxLogLines {
		lines = maxLogLines
	}

	return c.JSON(fiber.Map{"logs": ctrl.Buffer.Tail(lines)})
}
