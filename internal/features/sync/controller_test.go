package sync

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"plm-connector/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestApp(h *harness) *fiber.App {
	app := fiber.New()
	NewSyncApi(NewSyncController(h.svc), &config.Config{SkipAuth: true}).Setup(app)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil), -1)
	require.NoError(t, err)

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestSyncController_DefaultsToDryRun(t *testing.T) {
	h := newHarness(completed("06-001"))
	app := newTestApp(h)

	status, body := call(t, app, "POST", "/sync/cin7")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["dry_run"])
	assert.Equal(t, "success", body["status"])
	assert.Empty(t, h.dest.created)

	status, _ = call(t, app, "POST", "/sync/cin7?dry_run=maybe")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSyncController_ConfigurationError(t *testing.T) {
	h := newHarness(completed("06-001"))
	h.settings.cfg.ArenaPassword = ""
	app := newTestApp(h)

	status, body := call(t, app, "POST", "/sync/cin7?dry_run=false")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "configuration", body["error_kind"])
	assert.Equal(t, "error", body["status"])
}

func TestSyncController_OnDemand(t *testing.T) {
	h := newHarness(completed("06-001"))
	app := newTestApp(h)

	status, _ := call(t, app, "POST", "/sync/on-demand")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := call(t, app, "POST", "/sync/on-demand?item_number=06-404")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])

	status, body = call(t, app, "POST", "/sync/on-demand?item_number=06-001&dry_run=false")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "on_demand", body["kind"])
	assert.Len(t, h.dest.created, 1)
}

func TestSyncController_Results(t *testing.T) {
	h := newHarness(completed("06-001"))
	app := newTestApp(h)

	status, _ := call(t, app, "GET", "/sync/results/latest")
	assert.Equal(t, fiber.StatusNotFound, status)

	call(t, app, "POST", "/sync/cin7")
	call(t, app, "POST", "/sync/cin7")

	status, body := call(t, app, "GET", "/sync/results/latest")
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["run_id"])

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/results?limit=1", nil), -1)
	require.NoError(t, err)
	var list []SyncResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)
}

func TestSyncController_Export(t *testing.T) {
	h := newHarness(completed("06-001"), completed("06-002"))
	app := newTestApp(h)
	call(t, app, "POST", "/sync/cin7")

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/results/export", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	runs, err := f.GetRows("Runs")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Run ID", runs[0][0])
	assert.Equal(t, "success", runs[1][6])

	items, err := f.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "06-001", items[1][1])
	assert.Equal(t, "simulated", items[1][2])
}

func TestSyncController_InspectItem(t *testing.T) {
	h := newHarness()
	app := newTestApp(h)

	status, body := call(t, app, "GET", "/test/arena/item/g-42")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"guid": "g-42"}, body["item"])
}
