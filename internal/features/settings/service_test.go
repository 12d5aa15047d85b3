package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "plm-connector/internal/common/models"
	"plm-connector/internal/connectors"
	"plm-connector/internal/features/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type MockSettingsRepo struct {
	stored   *Settings
	setCalls []bson.M
	// beforeSet runs ahead of each SetFields write, standing in for a concurrent writer.
	beforeSet func()
}

func (m *MockSettingsRepo) GetByType(ctx context.Context, sType SettingsType) (*Settings, error) {
	if m.stored == nil {
		return nil, nil
	}
	cp := *m.stored
	return &cp, nil
}

func (m *MockSettingsRepo) SetFields(ctx context.Context, sType SettingsType, fields bson.M) error {
	if m.beforeSet != nil {
		hook := m.beforeSet
		m.beforeSet = nil
		hook()
	}
	m.setCalls = append(m.setCalls, fields)
	if m.stored == nil {
		m.stored = defaultSettings()
	}
	for k, v := range fields {
		switch k {
		case "arena_workspace_id":
			m.stored.ArenaWorkspaceID = v.(string)
		case "arena_email":
			m.stored.ArenaEmail = v.(string)
		case "arena_password":
			m.stored.ArenaPassword = v.(string)
		case "cin7_api_user":
			m.stored.Cin7APIUser = v.(string)
		case "cin7_api_key":
			m.stored.Cin7APIKey = v.(string)
		case "item_prefix_filter":
			m.stored.ItemPrefixFilter = v.(string)
		case "auto_sync_enabled":
			m.stored.AutoSyncEnabled = v.(bool)
		case "last_sync_time":
			t := v.(time.Time)
			m.stored.LastSyncTime = &t
		case "is_arena_connected":
			m.stored.IsArenaConnected = v.(bool)
		case "is_cin7_connected":
			m.stored.IsCin7Connected = v.(bool)
		}
	}
	return nil
}

type MockAuditService struct {
	changes []map[string]common_models.Change
}

func (m *MockAuditService) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.changes = append(m.changes, changes)
	return nil
}

func (m *MockAuditService) ListLogs(ctx context.Context, filter audit.Filter, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type MockSource struct {
	connectors.ItemSource
	testErr error
}

func (m *MockSource) TestConnection(ctx context.Context) error { return m.testErr }

type MockDestination struct {
	connectors.ProductDestination
	testErr error
}

func (m *MockDestination) TestConnection(ctx context.Context) error { return m.testErr }

type MockFactory struct {
	source *MockSource
	dest   *MockDestination
}

func (m *MockFactory) Source(creds connectors.ArenaCredentials) (connectors.ItemSource, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return m.source, nil
}

func (m *MockFactory) Destination(creds connectors.Cin7Credentials) (connectors.ProductDestination, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return m.dest, nil
}

func newTestService(repo *MockSettingsRepo, factory *MockFactory) (*SettingsServiceImpl, *MockAuditService) {
	auditSvc := &MockAuditService{}
	if factory == nil {
		factory = &MockFactory{source: &MockSource{}, dest: &MockDestination{}}
	}
	svc := NewSettingsService(repo, auditSvc, factory, zap.NewNop()).(*SettingsServiceImpl)
	return svc, auditSvc
}

func TestGet_DefaultsWhenEmpty(t *testing.T) {
	svc, _ := newTestService(&MockSettingsRepo{}, nil)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "*", settings.ItemPrefixFilter)
	assert.False(t, settings.AutoSyncEnabled)
	assert.Nil(t, settings.LastSyncTime)
}

func TestGetMasked_HidesSecrets(t *testing.T) {
	repo := &MockSettingsRepo{stored: &Settings{
		Type:          SettingsTypeConnector,
		ArenaEmail:    "ops@example.com",
		ArenaPassword: "hunter2",
		Cin7APIUser:   "user",
	}}
	svc, _ := newTestService(repo, nil)

	masked, err := svc.GetMasked(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MaskedSecret, masked.ArenaPassword)
	assert.Equal(t, "", masked.Cin7APIKey)
	assert.Equal(t, "ops@example.com", masked.ArenaEmail)
	assert.Equal(t, "hunter2", repo.stored.ArenaPassword)
}

func TestSave_MaskedSecretKeepsStoredValue(t *testing.T) {
	last := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := &MockSettingsRepo{stored: &Settings{
		Type:             SettingsTypeConnector,
		ArenaWorkspaceID: "ws",
		ArenaEmail:       "ops@example.com",
		ArenaPassword:    "hunter2",
		Cin7APIUser:      "user",
		Cin7APIKey:       "old-key",
		LastSyncTime:     &last,
		IsArenaConnected: true,
		IsCin7Connected:  true,
	}}
	svc, auditSvc := newTestService(repo, nil)

	out, err := svc.Save(context.Background(), SaveSettingsRequest{
		ArenaWorkspaceID: "ws",
		ArenaEmail:       "ops@example.com",
		ArenaPassword:    MaskedSecret,
		Cin7APIUser:      "user",
		Cin7APIKey:       "new-key",
		ItemPrefixFilter: "06-",
		AutoSyncEnabled:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "hunter2", repo.stored.ArenaPassword)
	assert.Equal(t, "new-key", repo.stored.Cin7APIKey)
	assert.Equal(t, "06-", repo.stored.ItemPrefixFilter)
	assert.True(t, repo.stored.AutoSyncEnabled)
	assert.Equal(t, &last, repo.stored.LastSyncTime)
	assert.True(t, repo.stored.IsArenaConnected, "unchanged arena credentials keep the flag")
	assert.False(t, repo.stored.IsCin7Connected, "changed cin7 key resets the flag")

	assert.Equal(t, MaskedSecret, out.Cin7APIKey)
	require.Len(t, auditSvc.changes, 1)
	newSettings := auditSvc.changes[0]["settings"].New.(*Settings)
	assert.Equal(t, MaskedSecret, newSettings.Cin7APIKey)
}

func TestSave_KeepsSyncTimeRecordedMeanwhile(t *testing.T) {
	before := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	during := time.Date(2026, 3, 1, 8, 15, 0, 0, time.UTC)
	repo := &MockSettingsRepo{stored: &Settings{
		Type:             SettingsTypeConnector,
		ArenaWorkspaceID: "ws",
		ArenaEmail:       "ops@example.com",
		ArenaPassword:    "pw",
		ItemPrefixFilter: "*",
		LastSyncTime:     &before,
	}}
	svc, _ := newTestService(repo, nil)
	repo.beforeSet = func() {
		require.NoError(t, svc.RecordSyncTime(context.Background(), during))
	}

	_, err := svc.Save(context.Background(), SaveSettingsRequest{
		ArenaWorkspaceID: "ws",
		ArenaEmail:       "ops@example.com",
		ArenaPassword:    MaskedSecret,
		ItemPrefixFilter: "06-",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.stored.LastSyncTime)
	assert.Equal(t, during, *repo.stored.LastSyncTime)
	assert.Equal(t, "06-", repo.stored.ItemPrefixFilter)
	for _, call := range repo.setCalls {
		if _, ok := call["item_prefix_filter"]; ok {
			assert.NotContains(t, call, "last_sync_time")
			assert.NotContains(t, call, "is_arena_connected", "unchanged credentials leave the flag alone")
		}
	}
}

func TestSetAutoSyncAndRecordSyncTime(t *testing.T) {
	repo := &MockSettingsRepo{}
	svc, auditSvc := newTestService(repo, nil)

	require.NoError(t, svc.SetAutoSync(context.Background(), true))
	assert.True(t, repo.stored.AutoSyncEnabled)
	assert.Len(t, auditSvc.changes, 1)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RecordSyncTime(context.Background(), at))
	assert.Equal(t, at, *repo.stored.LastSyncTime)
}

func TestTestConnection(t *testing.T) {
	repo := &MockSettingsRepo{stored: &Settings{
		Type:             SettingsTypeConnector,
		ArenaWorkspaceID: "ws",
		ArenaEmail:       "ops@example.com",
		ArenaPassword:    "pw",
	}}
	factory := &MockFactory{
		source: &MockSource{},
		dest:   &MockDestination{testErr: errors.New("boom")},
	}
	svc, _ := newTestService(repo, factory)

	res, err := svc.TestConnection(context.Background(), SystemArena)
	require.NoError(t, err)
	assert.True(t, res.Connected)
	assert.True(t, repo.stored.IsArenaConnected)

	// No cin7 credentials stored: the factory rejects them before any call.
	res, err = svc.TestConnection(context.Background(), SystemCin7)
	require.NoError(t, err)
	assert.False(t, res.Connected)
	assert.Contains(t, res.Message, "configuration error")
	assert.False(t, repo.stored.IsCin7Connected)

	_, err = svc.TestConnection(context.Background(), "sap")
	assert.ErrorIs(t, err, ErrUnknownSystem)
}
