package rules

import (
	"time"

	"plm-connector/pkg/mapping"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncRule is one administrator-editable mapping slot. Rules are never deleted;
// disabling one removes it from every mapping pass.
type SyncRule struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RuleKey   string             `bson:"rule_key" json:"rule_key"`
	RuleName  string             `bson:"rule_name" json:"rule_name"`
	RuleValue string             `bson:"rule_value" json:"rule_value"`
	IsEnabled bool               `bson:"is_enabled" json:"is_enabled"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (r SyncRule) toMapping() mapping.Rule {
	return mapping.Rule{Key: r.RuleKey, Value: r.RuleValue, Enabled: r.IsEnabled}
}

type CreateRuleRequest struct {
	RuleKey   string `json:"rule_key" validate:"required,max=128"`
	RuleName  string `json:"rule_name" validate:"max=256"`
	RuleValue string `json:"rule_value" validate:"max=1024"`
	IsEnabled *bool  `json:"is_enabled"`
}

// UpdateRuleRequest is a partial patch; rule_key cannot be changed.
type UpdateRuleRequest struct {
	RuleName  *string `json:"rule_name" validate:"omitempty,max=256"`
	RuleValue *string `json:"rule_value" validate:"omitempty,max=1024"`
	IsEnabled *bool   `json:"is_enabled"`
}

func (r UpdateRuleRequest) empty() bool {
	return r.RuleName == nil && r.RuleValue == nil && r.IsEnabled == nil
}

// DefaultRules is the starter rule set for a fresh installation.
func DefaultRules() []CreateRuleRequest {
	enabled := true
	return []CreateRuleRequest{
		{RuleKey: mapping.KeyTransferFilter, RuleName: "Sync Filter (Transfer Data to ERP?)", RuleValue: "Yes", IsEnabled: &enabled},
		{RuleKey: mapping.KeyRevenueAccount, RuleName: "Default Product Revenue Account", RuleValue: "4001: OEM Product", IsEnabled: &enabled},
		{RuleKey: mapping.KeyDefaultLocation, RuleName: "Default Product Location", RuleValue: "Main Warehouse", IsEnabled: &enabled},
		{RuleKey: mapping.KeyProductType, RuleName: "Default Product Type", RuleValue: "Stock", IsEnabled: &enabled},
		{RuleKey: mapping.KeyAllowedLifecycles, RuleName: "Arena Item Status Filter", RuleValue: "In Production, Deprecated, Obsolete", IsEnabled: &enabled},
		{RuleKey: mapping.KeyAssemblyBOM, RuleName: "Add BOMs to applicable NEW products", RuleValue: "Yes", IsEnabled: &enabled},
	}
}
