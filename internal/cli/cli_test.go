package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"plm-connector/internal/connectors"
	"plm-connector/internal/features/sync"
	"plm-connector/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	batchDryRun *bool
	item        string
	trigger     sync.Trigger
	result      *sync.SyncResult
	err         error
}

func (m *mockRunner) RunSync(ctx context.Context, dryRun bool, trigger sync.Trigger) (*sync.SyncResult, error) {
	m.batchDryRun = &dryRun
	m.trigger = trigger
	return m.result, m.err
}

func (m *mockRunner) SyncItem(ctx context.Context, itemNumber string, dryRun bool, trigger sync.Trigger) (*sync.SyncResult, error) {
	m.item = itemNumber
	m.trigger = trigger
	return m.result, m.err
}

type mockSettings struct {
	enabled *bool
}

func (m *mockSettings) SetAutoSync(ctx context.Context, enabled bool) error {
	m.enabled = &enabled
	return nil
}

type mockSeeder struct {
	added int
}

func (m *mockSeeder) SeedDefaults(ctx context.Context) (int, error) {
	return m.added, nil
}

func execute(t *testing.T, svc *Services, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		runDryRun = true
		runItem = ""
		tokenRoles = []string{"operator"}
	}()

	err := Execute(context.Background(), svc, args)
	return buf.String(), err
}

func TestSeedRules(t *testing.T) {
	out, err := execute(t, &Services{Rules: &mockSeeder{added: 6}}, "seed-rules")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 6 rule(s).")
}

func TestAutoSync(t *testing.T) {
	settings := &mockSettings{}

	out, err := execute(t, &Services{Settings: settings}, "auto-sync", "off")
	require.NoError(t, err)
	require.NotNil(t, settings.enabled)
	assert.False(t, *settings.enabled)
	assert.Contains(t, out, "Auto-sync disabled.")

	_, err = execute(t, &Services{Settings: settings}, "auto-sync", "maybe")
	assert.Error(t, err)
}

func TestRun_BatchDefaultsToDryRun(t *testing.T) {
	runner := &mockRunner{result: &sync.SyncResult{RunID: "r1", Status: sync.StatusSuccess, Processed: 2, Succeeded: 2}}

	out, err := execute(t, &Services{Sync: runner}, "run")
	require.NoError(t, err)
	require.NotNil(t, runner.batchDryRun)
	assert.True(t, *runner.batchDryRun)
	assert.Equal(t, sync.TriggerCLI, runner.trigger)
	assert.Contains(t, out, "Processed 2: 2 succeeded, 0 failed, 0 skipped")
}

func TestRun_LiveItem(t *testing.T) {
	runner := &mockRunner{result: &sync.SyncResult{
		RunID:     "r2",
		Status:    sync.StatusError,
		Processed: 1,
		Failed:    1,
		Errors:    []string{"item 06-001: missing rule ProductType"},
	}}

	out, err := execute(t, &Services{Sync: runner}, "run", "--item", "06-001", "--dry-run=false")
	assert.Error(t, err)
	assert.Equal(t, "06-001", runner.item)
	assert.Nil(t, runner.batchDryRun)
	assert.Contains(t, out, "item 06-001: missing rule ProductType")
}

func TestRun_PassError(t *testing.T) {
	runner := &mockRunner{err: connectors.ErrItemNotFound}

	_, err := execute(t, &Services{Sync: runner}, "run", "--item", "06-404")
	assert.True(t, errors.Is(err, connectors.ErrItemNotFound))
}

func TestToken(t *testing.T) {
	utils.SetSecret("cli-test-secret")

	out, err := execute(t, &Services{}, "token", "ops-1", "--role", "admin", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := utils.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops-1", claims.UserID)
	assert.True(t, claims.HasRole("admin"))
}
