package settings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SettingsType string

// The connector keeps a single settings document.
const SettingsTypeConnector SettingsType = "connector"

// MaskedSecret is returned in place of stored credentials. Saving it back keeps the stored value.
const MaskedSecret = "********"

// Settings is the singleton connection and sync configuration.
type Settings struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Type             SettingsType       `bson:"type" json:"-"`
	ArenaWorkspaceID string             `bson:"arena_workspace_id" json:"arena_workspace_id"`
	ArenaEmail       string             `bson:"arena_email" json:"arena_email"`
	ArenaPassword    string             `bson:"arena_password" json:"arena_password"`
	Cin7APIUser      string             `bson:"cin7_api_user" json:"cin7_api_user"`
	Cin7APIKey       string             `bson:"cin7_api_key" json:"cin7_api_key"`
	ItemPrefixFilter string             `bson:"item_prefix_filter" json:"item_prefix_filter"`
	AutoSyncEnabled  bool               `bson:"auto_sync_enabled" json:"auto_sync_enabled"`
	LastSyncTime     *time.Time         `bson:"last_sync_time,omitempty" json:"last_sync_time"`
	IsArenaConnected bool               `bson:"is_arena_connected" json:"is_arena_connected"`
	IsCin7Connected  bool               `bson:"is_cin7_connected" json:"is_cin7_connected"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// SaveSettingsRequest is the full-replace body of POST /settings.
type SaveSettingsRequest struct {
	ArenaWorkspaceID string `json:"arena_workspace_id" validate:"max=128"`
	ArenaEmail       string `json:"arena_email" validate:"omitempty,email"`
	ArenaPassword    string `json:"arena_password" validate:"max=256"`
	Cin7APIUser      string `json:"cin7_api_user" validate:"max=128"`
	Cin7APIKey       string `json:"cin7_api_key" validate:"max=256"`
	ItemPrefixFilter string `json:"item_prefix_filter" validate:"max=256"`
	AutoSyncEnabled  bool   `json:"auto_sync_enabled"`
}

// ConnectionTestResult is returned by the connection test endpoints.
type ConnectionTestResult struct {
	System    string `json:"system"`
	Connected bool   `json:"connected"`
	Message   string `json:"message,omitempty"`
}

func defaultSettings() *Settings {
	return &Settings{
		Type:             SettingsTypeConnector,
		ItemPrefixFilter: "*",
	}
}

// Masked returns a copy safe to hand to API callers.
func (s *Settings) Masked() *Settings {
	out := *s
	out.ArenaPassword = mask(s.ArenaPassword)
	out.Cin7APIKey = mask(s.Cin7APIKey)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return MaskedSecret
}
