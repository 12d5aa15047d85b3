package audit

import (
	"errors"
	"strconv"
	"time"

	common_models "plm-connector/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit trail
// @Description Rule, settings and sync pass entries, newest first
// @Tags admin
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param module query string false "rules, settings or sync"
// @Param record_id query string false "Record id"
// @Param run_id query string false "Sync run id, implies module=sync"
// @Param action query string false "CREATE, UPDATE, SYNC, SETTINGS or SEED"
// @Param actor_id query string false "Operator id"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Success 200 {array} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /admin/audit [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logs, err := ctrl.Service.ListLogs(c.UserContext(), filter, page, limit)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrEmptyWindow) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(logs)
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	filter := Filter{
		Module:   c.Query("module"),
		RecordID: c.Query("record_id"),
		Action:   common_models.AuditAction(c.Query("action")),
		ActorID:  c.Query("actor_id"),
	}
	if runID := c.Query("run_id"); runID != "" {
		run := ForRun(runID)
		filter.Module, filter.RecordID = run.Module, run.RecordID
	}

	var err error
	if filter.Since, err = parseTime(c.Query("since")); err != nil {
		return Filter{}, errors.New("since must be an RFC3339 timestamp")
	}
	if filter.Until, err = parseTime(c.Query("until")); err != nil {
		return Filter{}, errors.New("until must be an RFC3339 timestamp")
	}
	return filter, nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
