package cron_feature

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"plm-connector/internal/config"
	"plm-connector/internal/features/settings"
	sync_feature "plm-connector/internal/features/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	calls   []sync_feature.Trigger
	dryRuns []bool
	err     error
	block   chan struct{}
	entered chan struct{}
	running bool
}

func (f *fakeRunner) RunSync(ctx context.Context, dryRun bool, trigger sync_feature.Trigger) (*sync_feature.SyncResult, error) {
	f.calls = append(f.calls, trigger)
	f.dryRuns = append(f.dryRuns, dryRun)
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &sync_feature.SyncResult{RunID: "run-1", Status: sync_feature.StatusSuccess}, nil
}

func (f *fakeRunner) IsRunning() bool { return f.running }

type fakeSettings struct {
	cfg settings.Settings
}

func (f *fakeSettings) Get(ctx context.Context) (*settings.Settings, error) {
	cp := f.cfg
	return &cp, nil
}

type fakeTrigger struct {
	fire    func()
	stopped bool
	next    time.Time
}

func (f *fakeTrigger) Start(fire func()) error {
	f.fire = fire
	return nil
}

func (f *fakeTrigger) Stop(ctx context.Context) error {
	f.stopped = true
	return nil
}

func (f *fakeTrigger) Next() time.Time { return f.next }

func newTestScheduler(runner *fakeRunner, cfg settings.Settings) (*Scheduler, *fakeTrigger, *fakeSettings) {
	trigger := &fakeTrigger{}
	store := &fakeSettings{cfg: cfg}
	s := &Scheduler{
		runner:   runner,
		settings: store,
		trigger:  trigger,
		schedule: "@every 15m",
		logger:   zap.NewNop(),
		now:      time.Now,
		state:    StateIdle,
	}
	return s, trigger, store
}

func TestTick_AutoSyncDisabled(t *testing.T) {
	runner := &fakeRunner{}
	last := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	s, trigger, store := newTestScheduler(runner, settings.Settings{AutoSyncEnabled: false, LastSyncTime: &last})
	require.NoError(t, s.Start())

	trigger.fire()

	assert.Empty(t, runner.calls)
	assert.Equal(t, StateDisabled, s.State())
	assert.Equal(t, &last, store.cfg.LastSyncTime)
	assert.Equal(t, TickDisabled, s.Tick(context.Background(), false))
}

func TestTick_RunsLiveScheduledPass(t *testing.T) {
	runner := &fakeRunner{}
	s, trigger, _ := newTestScheduler(runner, settings.Settings{AutoSyncEnabled: true})
	require.NoError(t, s.Start())

	trigger.fire()

	assert.Equal(t, []sync_feature.Trigger{sync_feature.TriggerScheduled}, runner.calls)
	assert.Equal(t, []bool{false}, runner.dryRuns)
	assert.Equal(t, StateIdle, s.State())
}

func TestTick_ReturnsToIdleOnFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("arena unreachable")}
	s, _, _ := newTestScheduler(runner, settings.Settings{})

	assert.Equal(t, TickRan, s.Tick(context.Background(), true))
	assert.Equal(t, StateIdle, s.State())
}

func TestTick_SkipsWhileRunning(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{}), entered: make(chan struct{})}
	s, _, _ := newTestScheduler(runner, settings.Settings{})

	done := make(chan TickOutcome, 1)
	go func() { done <- s.Tick(context.Background(), true) }()
	<-runner.entered

	assert.Equal(t, StateRunning, s.State())
	assert.Equal(t, TickSkipped, s.Tick(context.Background(), true))

	close(runner.block)
	assert.Equal(t, TickRan, <-done)
	assert.Len(t, runner.calls, 1)
}

func TestTick_ManualPassHoldsLock(t *testing.T) {
	runner := &fakeRunner{err: sync_feature.ErrSyncInProgress}
	s, _, _ := newTestScheduler(runner, settings.Settings{})

	assert.Equal(t, TickSkipped, s.Tick(context.Background(), true))
	assert.Equal(t, StateIdle, s.State())
}

func TestSchedulerStatusEndpoint(t *testing.T) {
	runner := &fakeRunner{running: true}
	last := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	s, trigger, _ := newTestScheduler(runner, settings.Settings{AutoSyncEnabled: true, LastSyncTime: &last})
	trigger.next = last.Add(15 * time.Minute)

	app := fiber.New()
	NewSchedulerApi(NewSchedulerController(s), &config.Config{SkipAuth: true}).Setup(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/status", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status SyncStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, StateIdle, status.SchedulerState)
	assert.True(t, status.SyncInProgress)
	assert.True(t, status.AutoSyncEnabled)
	assert.Equal(t, "@every 15m", status.Schedule)
	require.NotNil(t, status.LastSyncTime)
	assert.True(t, last.Equal(*status.LastSyncTime))
	require.NotNil(t, status.NextRun)
	assert.True(t, trigger.next.Equal(*status.NextRun))
}

func TestSchedulerStop(t *testing.T) {
	s, trigger, _ := newTestScheduler(&fakeRunner{}, settings.Settings{})
	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, trigger.stopped)
}

func TestCronTrigger(t *testing.T) {
	trigger := NewCronTrigger("not a schedule")
	assert.Error(t, trigger.Start(func() {}))

	trigger = NewCronTrigger("@every 1h")
	assert.True(t, trigger.Next().IsZero())
	require.NoError(t, trigger.Start(func() {}))
	defer trigger.Stop(context.Background())

	assert.Eventually(t, func() bool { return !trigger.Next().IsZero() }, time.Second, 10*time.Millisecond)
}
