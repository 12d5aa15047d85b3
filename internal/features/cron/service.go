package cron_feature

import (
	"context"
	"errors"
	"sync"
	"time"

	"plm-connector/internal/features/settings"
	sync_feature "plm-connector/internal/features/sync"

	"go.uber.org/zap"
)

type syncRunner interface {
	RunSync(ctx context.Context, dryRun bool, trigger sync_feature.Trigger) (*sync_feature.SyncResult, error)
	IsRunning() bool
}

type settingsReader interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

// Scheduler runs live batch passes on a recurring schedule while auto-sync is enabled.
// Manual and scheduled passes share the orchestrator's lock, so a tick that lands
// during a manual pass is skipped.
type Scheduler struct {
	runner   syncRunner
	settings settingsReader
	trigger  Trigger
	schedule string
	logger   *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	state       SchedulerState
	lastTickAt  *time.Time
	lastOutcome TickOutcome
}

func NewScheduler(runner sync_feature.SyncService, settingsService settings.SettingsService, trigger Trigger, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		settings: settingsService,
		trigger:  trigger,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
		state:    StateIdle,
	}
}

// Tick performs one scheduling decision. The auto-sync flag is passed in rather than read,
// so a tick is a pure function of its inputs and the scheduler state.
func (s *Scheduler) Tick(ctx context.Context, autoSyncEnabled bool) TickOutcome {
	s.mu.Lock()
	at := s.now()
	s.lastTickAt = &at
	if !autoSyncEnabled {
		s.state = StateDisabled
		s.lastOutcome = TickDisabled
		s.mu.Unlock()
		s.logger.Debug("Auto-sync disabled, tick ignored")
		return TickDisabled
	}
	if s.state == StateRunning {
		s.lastOutcome = TickSkipped
		s.mu.Unlock()
		s.logger.Info("Previous scheduled pass still running, tick skipped")
		return TickSkipped
	}
	s.state = StateRunning
	s.mu.Unlock()

	outcome := TickRan
	result, err := s.runner.RunSync(ctx, false, sync_feature.TriggerScheduled)
	switch {
	case errors.Is(err, sync_feature.ErrSyncInProgress):
		outcome = TickSkipped
		s.logger.Info("Sync already in progress, scheduled tick skipped")
	case err != nil:
		s.logger.Error("Scheduled sync failed", zap.Error(err))
	default:
		s.logger.Info("Scheduled sync finished",
			zap.String("run_id", result.RunID),
			zap.String("status", string(result.Status)))
	}

	s.mu.Lock()
	s.state = StateIdle
	s.lastOutcome = outcome
	s.mu.Unlock()
	return outcome
}

// fire is the trigger callback: it reads the current auto-sync flag and ticks.
func (s *Scheduler) fire() {
	ctx := context.Background()
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load settings for scheduled tick", zap.Error(err))
		return
	}
	s.Tick(ctx, cfg.AutoSyncEnabled)
}

func (s *Scheduler) Start() error {
	if err := s.trigger.Start(s.fire); err != nil {
		return err
	}
	s.logger.Info("Sync scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping sync scheduler")
	return s.trigger.Stop(ctx)
}

func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status combines scheduler state, the orchestrator's lock and the stored heartbeat.
func (s *Scheduler) Status(ctx context.Context) (*SyncStatus, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	status := &SyncStatus{
		SchedulerState:  s.state,
		Schedule:        s.schedule,
		AutoSyncEnabled: cfg.AutoSyncEnabled,
		LastSyncTime:    cfg.LastSyncTime,
		LastTickAt:      s.lastTickAt,
		LastTickOutcome: s.lastOutcome,
	}
	s.mu.Unlock()

	status.SyncInProgress = s.runner.IsRunning()
	if next := s.trigger.Next(); !next.IsZero() {
		status.NextRun = &next
	}
	return status, nil
}
