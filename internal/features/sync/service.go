package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	common_models "plm-connector/internal/common/models"
	"plm-connector/internal/connectors"
	"plm-connector/internal/features/audit"
	"plm-connector/internal/features/rules"
	"plm-connector/internal/features/settings"
	"plm-connector/pkg/mapping"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RuleProvider supplies the enabled rule set for a pass.
type RuleProvider interface {
	EnabledRuleSet(ctx context.Context) (mapping.RuleSet, error)
}

// SettingsProvider is the part of the settings store a pass reads and writes.
type SettingsProvider interface {
	Get(ctx context.Context) (*settings.Settings, error)
	RecordSyncTime(ctx context.Context, at time.Time) error
}

type SyncService interface {
	// RunSync runs one batch pass. Pass-level failures (configuration, source) return the
	// appended error result together with an error wrapping the connector sentinel.
	RunSync(ctx context.Context, dryRun bool, trigger Trigger) (*SyncResult, error)
	// SyncItem runs the same map and push path for a single item number.
	// An unknown item returns connectors.ErrItemNotFound and appends nothing.
	SyncItem(ctx context.Context, itemNumber string, dryRun bool, trigger Trigger) (*SyncResult, error)
	InspectItem(ctx context.Context, guid string) (*connectors.RawItem, error)
	ListResults(ctx context.Context, limit int64) ([]SyncResult, error)
	LatestResult(ctx context.Context) (*SyncResult, error)
	IsRunning() bool
}

type SyncServiceImpl struct {
	Settings     SettingsProvider
	Rules        RuleProvider
	Connectors   connectors.Factory
	Results      ResultRepository
	Locker       Locker
	Hub          *Hub
	AuditService audit.AuditService
	Logger       *zap.Logger

	now     func() time.Time
	running atomic.Bool
}

func NewSyncService(
	settingsService settings.SettingsService,
	ruleService rules.RuleService,
	factory connectors.Factory,
	results ResultRepository,
	locker Locker,
	hub *Hub,
	auditService audit.AuditService,
	logger *zap.Logger,
) SyncService {
	return &SyncServiceImpl{
		Settings:     settingsService,
		Rules:        ruleService,
		Connectors:   factory,
		Results:      results,
		Locker:       locker,
		Hub:          hub,
		AuditService: auditService,
		Logger:       logger,
		now:          time.Now,
	}
}

func (s *SyncServiceImpl) IsRunning() bool {
	return s.running.Load()
}

func (s *SyncServiceImpl) RunSync(ctx context.Context, dryRun bool, trigger Trigger) (*SyncResult, error) {
	release, err := s.Locker.TryAcquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	s.running.Store(true)
	defer s.running.Store(false)

	started := s.now()
	result := newResult(uuid.NewString(), KindBatch, trigger, dryRun, started)
	log := s.Logger.With(zap.String("run_id", result.RunID), zap.Bool("dry_run", dryRun), zap.String("trigger", string(trigger)))
	log.Info("Sync pass started")

	cfg, ruleSet, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	source, dest, err := s.connect(cfg, dryRun)
	if err != nil {
		return s.abort(ctx, log, result, err)
	}

	items, err := source.ListCompletedItems(ctx)
	if err != nil {
		return s.abort(ctx, log, result, err)
	}

	for _, item := range items {
		if item.Status != common_models.ItemStatusCompleted || !mapping.MatchesPrefix(item.Number, cfg.ItemPrefixFilter) {
			continue
		}
		s.processItem(ctx, log, result, item, ruleSet, dest)
	}
	result.settle()

	if result.Heartbeat() {
		if err := s.Settings.RecordSyncTime(ctx, started); err != nil {
			log.Warn("Failed to record last sync time", zap.Error(err))
		}
	}

	s.finish(ctx, log, result)
	return result, nil
}

func (s *SyncServiceImpl) SyncItem(ctx context.Context, itemNumber string, dryRun bool, trigger Trigger) (*SyncResult, error) {
	release, err := s.Locker.TryAcquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	s.running.Store(true)
	defer s.running.Store(false)

	result := newResult(uuid.NewString(), KindOnDemand, trigger, dryRun, s.now())
	log := s.Logger.With(zap.String("run_id", result.RunID), zap.String("item_number", itemNumber), zap.Bool("dry_run", dryRun))
	log.Info("On-demand sync started")

	cfg, ruleSet, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	source, dest, err := s.connect(cfg, dryRun)
	if err != nil {
		return s.abort(ctx, log, result, err)
	}

	item, err := source.GetItemByNumber(ctx, itemNumber)
	if errors.Is(err, connectors.ErrItemNotFound) {
		log.Info("On-demand item not found")
		return nil, err
	}
	if err != nil {
		return s.abort(ctx, log, result, err)
	}

	s.processItem(ctx, log, result, *item, ruleSet, dest)
	result.settle()

	s.finish(ctx, log, result)
	return result, nil
}

func (s *SyncServiceImpl) InspectItem(ctx context.Context, guid string) (*connectors.RawItem, error) {
	cfg, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	source, err := s.Connectors.Source(arenaCredentials(cfg))
	if err != nil {
		return nil, err
	}
	return source.GetRawItem(ctx, guid)
}

func (s *SyncServiceImpl) ListResults(ctx context.Context, limit int64) ([]SyncResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Results.List(ctx, limit)
}

func (s *SyncServiceImpl) LatestResult(ctx context.Context) (*SyncResult, error) {
	return s.Results.Latest(ctx)
}

func (s *SyncServiceImpl) load(ctx context.Context) (*settings.Settings, mapping.RuleSet, error) {
	cfg, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	ruleSet, err := s.Rules.EnabledRuleSet(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load rules: %w", err)
	}
	return cfg, ruleSet, nil
}

// connect validates credentials up front. Destination credentials only matter for live passes.
func (s *SyncServiceImpl) connect(cfg *settings.Settings, dryRun bool) (connectors.ItemSource, connectors.ProductDestination, error) {
	source, err := s.Connectors.Source(arenaCredentials(cfg))
	if err != nil {
		return nil, nil, err
	}
	if dryRun {
		return source, nil, nil
	}
	dest, err := s.Connectors.Destination(connectors.Cin7Credentials{
		APIUser: cfg.Cin7APIUser,
		APIKey:  cfg.Cin7APIKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return source, dest, nil
}

func arenaCredentials(cfg *settings.Settings) connectors.ArenaCredentials {
	return connectors.ArenaCredentials{
		WorkspaceID: cfg.ArenaWorkspaceID,
		Email:       cfg.ArenaEmail,
		Password:    cfg.ArenaPassword,
	}
}

// processItem maps one item and pushes or simulates it. Failures are recorded, never returned.
func (s *SyncServiceImpl) processItem(ctx context.Context, log *zap.Logger, result *SyncResult, item common_models.Item, rules mapping.RuleSet, dest connectors.ProductDestination) {
	if item.LoadError != "" {
		number := item.Number
		if number == "" {
			number = item.GUID
		}
		result.fail(number, fmt.Sprintf("item %s: %s", number, item.LoadError))
		return
	}

	payload, err := mapping.MapItem(item, rules)
	if errors.Is(err, mapping.ErrItemExcluded) {
		log.Debug("Item skipped", zap.String("item_number", item.Number), zap.Error(err))
		result.skip(item.Number, err.Error())
		return
	}
	if err != nil {
		log.Warn("Item mapping failed", zap.String("item_number", item.Number), zap.Error(err))
		result.fail(item.Number, err.Error())
		return
	}

	if dest == nil {
		result.succeed(ItemResult{ItemNumber: item.Number, Outcome: OutcomeSimulated, Payload: payload})
		return
	}

	action, err := s.push(ctx, dest, payload)
	if err != nil {
		msg := fmt.Sprintf("item %s: %v", item.Number, err)
		log.Warn("Item push failed", zap.String("item_number", item.Number), zap.Error(err))
		result.fail(item.Number, msg)
		return
	}
	result.succeed(ItemResult{ItemNumber: item.Number, Outcome: OutcomeSynced, Action: action})
}

// push upserts by product code. BOM components are only attached to newly created assemblies.
func (s *SyncServiceImpl) push(ctx context.Context, dest connectors.ProductDestination, payload *common_models.Payload) (ItemAction, error) {
	existing, err := dest.FindProductByCode(ctx, payload.ProductCode)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return ActionUpdated, dest.UpdateProduct(ctx, existing.ID, payload)
	}

	created, err := dest.CreateProduct(ctx, payload)
	if err != nil {
		return "", err
	}
	if payload.HasBOM() {
		if err := dest.SaveBOM(ctx, created.ID, payload.BillOfMaterials); err != nil {
			return ActionCreated, fmt.Errorf("product created, bom not saved: %w", err)
		}
	}
	return ActionCreated, nil
}

// abort records a pass that failed before processing items and returns it with the cause.
func (s *SyncServiceImpl) abort(ctx context.Context, log *zap.Logger, result *SyncResult, cause error) (*SyncResult, error) {
	kind := ErrorKindSourceUnavailable
	if errors.Is(cause, connectors.ErrConfiguration) {
		kind = ErrorKindConfiguration
	}
	result.abort(kind, cause)
	log.Error("Sync pass aborted", zap.String("error_kind", kind), zap.Error(cause))

	s.finish(ctx, log, result)

	if kind == ErrorKindSourceUnavailable && !errors.Is(cause, connectors.ErrSourceUnavailable) {
		cause = fmt.Errorf("%w: %v", connectors.ErrSourceUnavailable, cause)
	}
	return result, cause
}

// finish appends the result to the log and announces it.
func (s *SyncServiceImpl) finish(ctx context.Context, log *zap.Logger, result *SyncResult) {
	result.FinishedAt = s.now()

	if err := s.Results.Append(ctx, result); err != nil {
		log.Error("Failed to append sync result", zap.Error(err))
	}
	s.Hub.Publish(result)

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSync, audit.ModuleSync, result.RunID, map[string]common_models.Change{
		"kind":      {New: result.Kind},
		"trigger":   {New: result.Trigger},
		"dry_run":   {New: result.DryRun},
		"status":    {New: result.Status},
		"processed": {New: result.Processed},
		"failed":    {New: result.Failed},
	})

	log.Info("Sync pass finished",
		zap.String("status", string(result.Status)),
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
}
