package rules

import (
	"context"
	"testing"
	"time"

	common_models "plm-connector/internal/common/models"
	"plm-connector/internal/features/audit"
	"plm-connector/pkg/mapping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MockRuleRepo keeps rules in insertion order and enforces rule_key uniqueness.
type MockRuleRepo struct {
	rules []SyncRule
}

func (m *MockRuleRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *MockRuleRepo) Create(ctx context.Context, rule *SyncRule) error {
	for _, r := range m.rules {
		if r.RuleKey == rule.RuleKey {
			return ErrDuplicateRuleKey
		}
	}
	rule.ID = primitive.NewObjectID()
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *MockRuleRepo) List(ctx context.Context) ([]SyncRule, error) {
	return append([]SyncRule{}, m.rules...), nil
}

func (m *MockRuleRepo) ListEnabled(ctx context.Context) ([]SyncRule, error) {
	var out []SyncRule
	for _, r := range m.rules {
		if r.IsEnabled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRuleRepo) GetByID(ctx context.Context, id string) (*SyncRule, error) {
	for _, r := range m.rules {
		if r.ID.Hex() == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, ErrRuleNotFound
}

func (m *MockRuleRepo) GetByKey(ctx context.Context, key string) (*SyncRule, error) {
	for _, r := range m.rules {
		if r.RuleKey == key {
			cp := r
			return &cp, nil
		}
	}
	return nil, ErrRuleNotFound
}

func (m *MockRuleRepo) Update(ctx context.Context, id string, fields bson.M) (*SyncRule, error) {
	for i, r := range m.rules {
		if r.ID.Hex() != id {
			continue
		}
		if v, ok := fields["rule_name"]; ok {
			r.RuleName = v.(string)
		}
		if v, ok := fields["rule_value"]; ok {
			r.RuleValue = v.(string)
		}
		if v, ok := fields["is_enabled"]; ok {
			r.IsEnabled = v.(bool)
		}
		r.UpdatedAt = time.Now()
		m.rules[i] = r
		return &r, nil
	}
	return nil, ErrRuleNotFound
}

func (m *MockRuleRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.rules)), nil
}

type MockAuditService struct {
	actions []common_models.AuditAction
}

func (m *MockAuditService) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.actions = append(m.actions, action)
	return nil
}

func (m *MockAuditService) ListLogs(ctx context.Context, filter audit.Filter, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func newTestService() (*RuleServiceImpl, *MockRuleRepo, *MockAuditService) {
	repo := &MockRuleRepo{}
	auditSvc := &MockAuditService{}
	return NewRuleService(repo, auditSvc, zap.NewNop()).(*RuleServiceImpl), repo, auditSvc
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateRule_Defaults(t *testing.T) {
	svc, _, auditSvc := newTestService()

	rule, err := svc.CreateRule(context.Background(), CreateRuleRequest{RuleKey: " ProductType ", RuleValue: "Stock"})
	require.NoError(t, err)
	assert.Equal(t, "ProductType", rule.RuleKey)
	assert.Equal(t, "ProductType", rule.RuleName)
	assert.True(t, rule.IsEnabled)
	assert.False(t, rule.ID.IsZero())
	assert.Equal(t, []common_models.AuditAction{common_models.AuditActionCreate}, auditSvc.actions)
}

func TestCreateRule_BlankKeyRejected(t *testing.T) {
	svc, repo, auditSvc := newTestService()

	_, err := svc.CreateRule(context.Background(), CreateRuleRequest{RuleKey: "   ", RuleValue: "Stock"})
	assert.ErrorIs(t, err, ErrBlankRuleKey)
	assert.Empty(t, repo.rules)
	assert.Empty(t, auditSvc.actions)
}

func TestCreateRule_DuplicateKeyLeavesStoreUnchanged(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateRule(context.Background(), CreateRuleRequest{RuleKey: "RevenueAccount", RuleValue: "4001"})
	require.NoError(t, err)

	_, err = svc.CreateRule(context.Background(), CreateRuleRequest{RuleKey: "RevenueAccount", RuleValue: "9999"})
	assert.ErrorIs(t, err, ErrDuplicateRuleKey)

	require.Len(t, repo.rules, 1)
	assert.Equal(t, "4001", repo.rules[0].RuleValue)
}

func TestUpdateRule_PartialPatch(t *testing.T) {
	svc, _, _ := newTestService()
	rule, err := svc.CreateRule(context.Background(), CreateRuleRequest{RuleKey: "DefaultLocation", RuleName: "Location", RuleValue: "Main"})
	require.NoError(t, err)

	updated, err := svc.UpdateRule(context.Background(), rule.ID.Hex(), UpdateRuleRequest{RuleValue: strPtr("Overflow")})
	require.NoError(t, err)
	assert.Equal(t, "Overflow", updated.RuleValue)
	assert.Equal(t, "Location", updated.RuleName)
	assert.True(t, updated.IsEnabled)
	assert.Equal(t, "DefaultLocation", updated.RuleKey)

	updated, err = svc.UpdateRule(context.Background(), rule.ID.Hex(), UpdateRuleRequest{IsEnabled: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsEnabled)
	assert.Equal(t, "Overflow", updated.RuleValue)
}

func TestUpdateRule_Errors(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateRule(context.Background(), primitive.NewObjectID().Hex(), UpdateRuleRequest{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	_, err = svc.UpdateRule(context.Background(), primitive.NewObjectID().Hex(), UpdateRuleRequest{RuleValue: strPtr("x")})
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestEnabledRuleSet_SkipsDisabled(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateRule(ctx, CreateRuleRequest{RuleKey: mapping.KeyProductType, RuleValue: "Stock"})
	require.NoError(t, err)
	_, err = svc.CreateRule(ctx, CreateRuleRequest{RuleKey: mapping.KeyAssemblyBOM, RuleValue: "Yes", IsEnabled: boolPtr(false)})
	require.NoError(t, err)

	set, err := svc.EnabledRuleSet(ctx)
	require.NoError(t, err)

	v, ok := set.Lookup(mapping.KeyProductType)
	assert.True(t, ok)
	assert.Equal(t, "Stock", v)
	_, ok = set.Lookup(mapping.KeyAssemblyBOM)
	assert.False(t, ok)
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateRule(ctx, CreateRuleRequest{RuleKey: mapping.KeyRevenueAccount, RuleValue: "custom"})
	require.NoError(t, err)

	added, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRules())-1, added)

	revenue, err := repo.GetByKey(ctx, mapping.KeyRevenueAccount)
	require.NoError(t, err)
	assert.Equal(t, "custom", revenue.RuleValue)

	added, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Len(t, repo.rules, len(DefaultRules()))
}
