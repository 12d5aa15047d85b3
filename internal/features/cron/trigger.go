package cron_feature

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger is the tick source. It calls fire on every scheduled instant until stopped.
type Trigger interface {
	Start(fire func()) error
	Stop(ctx context.Context) error
	// Next returns the next scheduled instant, or the zero time when not started.
	Next() time.Time
}

// CronTrigger drives ticks from a robfig/cron spec such as "@every 15m" or "*/5 * * * *".
type CronTrigger struct {
	spec    string
	cron    *cron.Cron
	entryID cron.EntryID
}

func NewCronTrigger(spec string) *CronTrigger {
	return &CronTrigger{spec: spec}
}

func (t *CronTrigger) Start(fire func()) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	entryID, err := c.AddFunc(t.spec, fire)
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", t.spec, err)
	}
	t.cron = c
	t.entryID = entryID
	c.Start()
	return nil
}

func (t *CronTrigger) Stop(ctx context.Context) error {
	if t.cron == nil {
		return nil
	}
	done := t.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *CronTrigger) Next() time.Time {
	if t.cron == nil {
		return time.Time{}
	}
	return t.cron.Entry(t.entryID).Next
}
