package sync

import (
	"time"

	"plm-connector/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SyncStatus string

const (
	StatusSuccess SyncStatus = "success"
	StatusPartial SyncStatus = "partial"
	StatusError   SyncStatus = "error"
)

type RunKind string

const (
	KindBatch    RunKind = "batch"
	KindOnDemand RunKind = "on_demand"
)

// Trigger records who started a pass.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
	TriggerCLI       Trigger = "cli"
)

// Pass-level error kinds. Per-item failures go to SyncResult.Errors instead.
const (
	ErrorKindConfiguration     = "configuration"
	ErrorKindSourceUnavailable = "source_unavailable"
)

type ItemOutcome string

const (
	OutcomeSynced    ItemOutcome = "synced"
	OutcomeSimulated ItemOutcome = "simulated"
	OutcomeSkipped   ItemOutcome = "skipped"
	OutcomeFailed    ItemOutcome = "failed"
)

type ItemAction string

const (
	ActionCreated ItemAction = "created"
	ActionUpdated ItemAction = "updated"
)

// ItemResult is the outcome of one item within a pass.
type ItemResult struct {
	ItemNumber string          `bson:"item_number" json:"item_number"`
	Outcome    ItemOutcome     `bson:"outcome" json:"outcome"`
	Action     ItemAction      `bson:"action,omitempty" json:"action,omitempty"`
	Payload    *models.Payload `bson:"payload,omitempty" json:"payload,omitempty"`
	Error      string          `bson:"error,omitempty" json:"error,omitempty"`
}

// SyncResult is the immutable outcome of one pass.
// Processed always equals Succeeded + Failed + Skipped.
type SyncResult struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RunID      string             `bson:"run_id" json:"run_id"`
	Kind       RunKind            `bson:"kind" json:"kind"`
	Trigger    Trigger            `bson:"trigger" json:"trigger"`
	Status     SyncStatus         `bson:"status" json:"status"`
	DryRun     bool               `bson:"dry_run" json:"dry_run"`
	Processed  int                `bson:"processed" json:"processed"`
	Succeeded  int                `bson:"succeeded" json:"succeeded"`
	Failed     int                `bson:"failed" json:"failed"`
	Skipped    int                `bson:"skipped" json:"skipped"`
	Errors     []string           `bson:"errors" json:"errors"`
	ErrorKind  string             `bson:"error_kind,omitempty" json:"error_kind,omitempty"`
	Message    string             `bson:"message,omitempty" json:"message,omitempty"`
	Items      []ItemResult       `bson:"items" json:"items"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	FinishedAt time.Time          `bson:"finished_at" json:"finished_at"`
}

func newResult(runID string, kind RunKind, trigger Trigger, dryRun bool, started time.Time) *SyncResult {
	return &SyncResult{
		RunID:     runID,
		Kind:      kind,
		Trigger:   trigger,
		DryRun:    dryRun,
		Errors:    []string{},
		Items:     []ItemResult{},
		Timestamp: started,
	}
}

func (r *SyncResult) succeed(item ItemResult) {
	r.Processed++
	r.Succeeded++
	r.Items = append(r.Items, item)
}

func (r *SyncResult) skip(number, reason string) {
	r.Processed++
	r.Skipped++
	r.Items = append(r.Items, ItemResult{ItemNumber: number, Outcome: OutcomeSkipped, Error: reason})
}

func (r *SyncResult) fail(number, message string) {
	r.Processed++
	r.Failed++
	r.Errors = append(r.Errors, message)
	r.Items = append(r.Items, ItemResult{ItemNumber: number, Outcome: OutcomeFailed, Error: message})
}

// abort marks a pass that stopped before any item was processed.
func (r *SyncResult) abort(kind string, err error) {
	r.Status = StatusError
	r.ErrorKind = kind
	r.Message = err.Error()
}

// settle derives the aggregate status from the attempted items. Skipped items
// never count toward success, so a pass whose only non-skipped items failed is an error.
func (r *SyncResult) settle() {
	if r.ErrorKind != "" {
		r.Status = StatusError
		return
	}
	switch {
	case r.Failed == 0:
		r.Status = StatusSuccess
	case r.Succeeded > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusError
	}
}

// Heartbeat reports whether a pass may advance Settings.last_sync_time.
func (r *SyncResult) Heartbeat() bool {
	return r.Kind == KindBatch && !r.DryRun && (r.Status == StatusSuccess || r.Status == StatusPartial)
}
