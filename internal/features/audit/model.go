package audit

import (
	"time"

	common_models "plm-connector/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Modules that write to the audit trail.
const (
	ModuleRules    = "rules"
	ModuleSettings = "settings"
	ModuleSync     = "sync"
)

// Filter narrows the audit trail. Zero fields match everything.
type Filter struct {
	Module   string
	RecordID string
	Action   common_models.AuditAction
	ActorID  string
	Since    time.Time
	Until    time.Time
}

// ForRun selects the entry a sync pass wrote on completion.
func ForRun(runID string) Filter {
	return Filter{Module: ModuleSync, RecordID: runID}
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.Module != "" {
		q["module"] = f.Module
	}
	if f.RecordID != "" {
		q["record_id"] = f.RecordID
	}
	if f.Action != "" {
		q["action"] = f.Action
	}
	if f.ActorID != "" {
		q["actor_id"] = f.ActorID
	}

	window := bson.M{}
	if !f.Since.IsZero() {
		window["$gte"] = f.Since
	}
	if !f.Until.IsZero() {
		window["$lt"] = f.Until
	}
	if len(window) > 0 {
		q["timestamp"] = window
	}
	return q
}
