package settings

import (
	"context"
	"errors"
	"time"

	common_models "plm-connector/internal/common/models"
	"plm-connector/internal/connectors"
	"plm-connector/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	SystemArena = "arena"
	SystemCin7  = "cin7"
)

var ErrUnknownSystem = errors.New("unknown system")

type SettingsService interface {
	// Get returns the stored settings, or defaults when nothing was saved yet. Never nil.
	Get(ctx context.Context) (*Settings, error)
	GetMasked(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, req SaveSettingsRequest) (*Settings, error)
	SetAutoSync(ctx context.Context, enabled bool) error
	RecordSyncTime(ctx context.Context, at time.Time) error
	TestConnection(ctx context.Context, system string) (*ConnectionTestResult, error)
}

type SettingsServiceImpl struct {
	Repo         SettingsRepository
	AuditService audit.AuditService
	Connectors   connectors.Factory
	Logger       *zap.Logger
}

func NewSettingsService(repo SettingsRepository, auditService audit.AuditService, factory connectors.Factory, logger *zap.Logger) SettingsService {
	return &SettingsServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Connectors:   factory,
		Logger:       logger,
	}
}

func (s *SettingsServiceImpl) Get(ctx context.Context) (*Settings, error) {
	settings, err := s.Repo.GetByType(ctx, SettingsTypeConnector)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return defaultSettings(), nil
	}
	return settings, nil
}

func (s *SettingsServiceImpl) GetMasked(ctx context.Context) (*Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settings.Masked(), nil
}

// Save replaces the operator-editable fields. A masked secret keeps the stored one.
// Only the editable fields are written, so a last_sync_time recorded by a concurrent pass
// is never rolled back. The connection flags are only written when they must reset.
func (s *SettingsServiceImpl) Save(ctx context.Context, req SaveSettingsRequest) (*Settings, error) {
	old, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	next := *old
	next.ArenaWorkspaceID = req.ArenaWorkspaceID
	next.ArenaEmail = req.ArenaEmail
	next.Cin7APIUser = req.Cin7APIUser
	next.ItemPrefixFilter = req.ItemPrefixFilter
	next.AutoSyncEnabled = req.AutoSyncEnabled
	if req.ArenaPassword != MaskedSecret {
		next.ArenaPassword = req.ArenaPassword
	}
	if req.Cin7APIKey != MaskedSecret {
		next.Cin7APIKey = req.Cin7APIKey
	}

	fields := bson.M{
		"arena_workspace_id": next.ArenaWorkspaceID,
		"arena_email":        next.ArenaEmail,
		"arena_password":     next.ArenaPassword,
		"cin7_api_user":      next.Cin7APIUser,
		"cin7_api_key":       next.Cin7APIKey,
		"item_prefix_filter": next.ItemPrefixFilter,
		"auto_sync_enabled":  next.AutoSyncEnabled,
	}
	if next.ArenaWorkspaceID != old.ArenaWorkspaceID || next.ArenaEmail != old.ArenaEmail || next.ArenaPassword != old.ArenaPassword {
		next.IsArenaConnected = false
		fields["is_arena_connected"] = false
	}
	if next.Cin7APIUser != old.Cin7APIUser || next.Cin7APIKey != old.Cin7APIKey {
		next.IsCin7Connected = false
		fields["is_cin7_connected"] = false
	}

	if err := s.Repo.SetFields(ctx, SettingsTypeConnector, fields); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", string(SettingsTypeConnector), map[string]common_models.Change{
		"settings": {
			Old: old.Masked(),
			New: next.Masked(),
		},
	})

	s.Logger.Info("Settings saved",
		zap.Bool("auto_sync_enabled", next.AutoSyncEnabled),
		zap.String("item_prefix_filter", next.ItemPrefixFilter))

	return next.Masked(), nil
}

func (s *SettingsServiceImpl) SetAutoSync(ctx context.Context, enabled bool) error {
	old, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := s.Repo.SetFields(ctx, SettingsTypeConnector, bson.M{"auto_sync_enabled": enabled}); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", string(SettingsTypeConnector), map[string]common_models.Change{
		"auto_sync_enabled": {Old: old.AutoSyncEnabled, New: enabled},
	})
	s.Logger.Info("Auto-sync toggled", zap.Bool("auto_sync_enabled", enabled))
	return nil
}

func (s *SettingsServiceImpl) RecordSyncTime(ctx context.Context, at time.Time) error {
	return s.Repo.SetFields(ctx, SettingsTypeConnector, bson.M{"last_sync_time": at})
}

// TestConnection checks the stored credentials against one upstream system and persists the outcome.
func (s *SettingsServiceImpl) TestConnection(ctx context.Context, system string) (*ConnectionTestResult, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	var (
		testErr error
		field   string
	)
	switch system {
	case SystemArena:
		field = "is_arena_connected"
		source, err := s.Connectors.Source(connectors.ArenaCredentials{
			WorkspaceID: settings.ArenaWorkspaceID,
			Email:       settings.ArenaEmail,
			Password:    settings.ArenaPassword,
		})
		if err != nil {
			testErr = err
		} else {
			testErr = source.TestConnection(ctx)
		}
	case SystemCin7:
		field = "is_cin7_connected"
		dest, err := s.Connectors.Destination(connectors.Cin7Credentials{
			APIUser: settings.Cin7APIUser,
			APIKey:  settings.Cin7APIKey,
		})
		if err != nil {
			testErr = err
		} else {
			testErr = dest.TestConnection(ctx)
		}
	default:
		return nil, ErrUnknownSystem
	}

	result := &ConnectionTestResult{System: system, Connected: testErr == nil}
	if testErr != nil {
		result.Message = testErr.Error()
		s.Logger.Warn("Connection test failed", zap.String("system", system), zap.Error(testErr))
	} else {
		s.Logger.Info("Connection test succeeded", zap.String("system", system))
	}

	if err := s.Repo.SetFields(ctx, SettingsTypeConnector, bson.M{field: result.Connected}); err != nil {
		return nil, err
	}
	return result, nil
}
