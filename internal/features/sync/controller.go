package sync

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"plm-connector/internal/connectors"

	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	Service SyncService
}

func NewSyncController(service SyncService) *SyncController {
	return &SyncController{
		Service: service,
	}
}

// RunSync godoc
// @Summary Run a batch sync pass
// @Description Pushes every eligible completed item to Cin7. Dry runs build payloads without writing.
// @Tags sync
// @Produce json
// @Param dry_run query bool false "Simulate only (default true)"
// @Success 200 {object} SyncResult
// @Failure 400 {object} SyncResult
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} SyncResult
// @Router /sync/cin7 [post]
func (c *SyncController) RunSync(ctx *fiber.Ctx) error {
	dryRun, err := parseDryRun(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := c.Service.RunSync(ctx.UserContext(), dryRun, TriggerManual)
	return respond(ctx, result, err)
}

// SyncItem godoc
// @Summary Sync a single item
// @Description Runs the map and push path for one item number, bypassing the prefix filter
// @Tags sync
// @Produce json
// @Param item_number query string true "Arena item number"
// @Param dry_run query bool false "Simulate only (default true)"
// @Success 200 {object} SyncResult
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /sync/on-demand [post]
func (c *SyncController) SyncItem(ctx *fiber.Ctx) error {
	number := ctx.Query("item_number")
	if number == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item_number is required"})
	}
	dryRun, err := parseDryRun(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := c.Service.SyncItem(ctx.UserContext(), number, dryRun, TriggerManual)
	return respond(ctx, result, err)
}

// ListResults godoc
// @Summary List recent sync results
// @Tags sync
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Success 200 {array} SyncResult
// @Router /sync/results [get]
func (c *SyncController) ListResults(ctx *fiber.Ctx) error {
	limit := int64(ctx.QueryInt("limit", 20))
	results, err := c.Service.ListResults(ctx.UserContext(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(results)
}

// LatestResult godoc
// @Summary Get the most recent sync result
// @Tags sync
// @Produce json
// @Success 200 {object} SyncResult
// @Failure 404 {object} map[string]interface{}
// @Router /sync/results/latest [get]
func (c *SyncController) LatestResult(ctx *fiber.Ctx) error {
	result, err := c.Service.LatestResult(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if result == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No sync has run yet"})
	}
	return ctx.JSON(result)
}

// ExportResults godoc
// @Summary Export recent sync results as xlsx
// @Tags sync
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param limit query int false "Max results (default 100)"
// @Success 200 {file} file
// @Router /sync/results/export [get]
func (c *SyncController) ExportResults(ctx *fiber.Ctx) error {
	limit := int64(ctx.QueryInt("limit", 100))
	results, err := c.Service.ListResults(ctx.UserContext(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	data, err := ExportResults(results)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("sync_results_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}

// InspectItem godoc
// @Summary Fetch a raw Arena item
// @Description Returns the unmodified item and BOM documents for debugging
// @Tags testing
// @Produce json
// @Param guid path string true "Arena item GUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /test/arena/item/{guid} [get]
func (c *SyncController) InspectItem(ctx *fiber.Ctx) error {
	raw, err := c.Service.InspectItem(ctx.UserContext(), ctx.Params("guid"))
	if err != nil {
		return ctx.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(raw)
}

func parseDryRun(ctx *fiber.Ctx) (bool, error) {
	raw := ctx.Query("dry_run")
	if raw == "" {
		return true, nil
	}
	dryRun, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid dry_run value %q", raw)
	}
	return dryRun, nil
}

// respond writes the result when the pass produced one, otherwise the error.
func respond(ctx *fiber.Ctx, result *SyncResult, err error) error {
	if err == nil {
		return ctx.JSON(result)
	}
	status := statusFor(err)
	if result != nil {
		return ctx.Status(status).JSON(result)
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSyncInProgress):
		return fiber.StatusConflict
	case errors.Is(err, connectors.ErrConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, connectors.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, connectors.ErrSourceUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
