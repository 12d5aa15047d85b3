package rules

import (
	"context"
	"errors"
	"strings"
	"time"

	common_models "plm-connector/internal/common/models"
	"plm-connector/internal/features/audit"
	"plm-connector/pkg/mapping"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var (
	ErrEmptyPatch   = errors.New("nothing to update: send rule_name, rule_value or is_enabled")
	ErrBlankRuleKey = errors.New("rule_key must not be blank")
)

type RuleService interface {
	ListRules(ctx context.Context) ([]SyncRule, error)
	CreateRule(ctx context.Context, req CreateRuleRequest) (*SyncRule, error)
	UpdateRule(ctx context.Context, id string, req UpdateRuleRequest) (*SyncRule, error)
	// EnabledRuleSet is the lookup table a mapping pass runs against.
	EnabledRuleSet(ctx context.Context) (mapping.RuleSet, error)
	// SeedDefaults inserts the default rules whose keys are not stored yet.
	SeedDefaults(ctx context.Context) (int, error)
}

type RuleServiceImpl struct {
	Repo         RuleRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewRuleService(repo RuleRepository, auditService audit.AuditService, logger *zap.Logger) RuleService {
	return &RuleServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *RuleServiceImpl) ListRules(ctx context.Context) ([]SyncRule, error) {
	return s.Repo.List(ctx)
}

func (s *RuleServiceImpl) CreateRule(ctx context.Context, req CreateRuleRequest) (*SyncRule, error) {
	key := strings.TrimSpace(req.RuleKey)
	if key == "" {
		return nil, ErrBlankRuleKey
	}

	// The unique index is the real guard; the lookup gives a clean error without a write.
	if _, err := s.Repo.GetByKey(ctx, key); err == nil {
		return nil, ErrDuplicateRuleKey
	} else if !errors.Is(err, ErrRuleNotFound) {
		return nil, err
	}

	now := time.Now()
	rule := &SyncRule{
		RuleKey:   key,
		RuleName:  req.RuleName,
		RuleValue: req.RuleValue,
		IsEnabled: req.IsEnabled == nil || *req.IsEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if rule.RuleName == "" {
		rule.RuleName = key
	}

	if err := s.Repo.Create(ctx, rule); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "rules", rule.ID.Hex(), map[string]common_models.Change{
		"rule": {New: rule},
	})
	s.Logger.Info("Rule created", zap.String("rule_key", rule.RuleKey), zap.Bool("is_enabled", rule.IsEnabled))
	return rule, nil
}

func (s *RuleServiceImpl) UpdateRule(ctx context.Context, id string, req UpdateRuleRequest) (*SyncRule, error) {
	if req.empty() {
		return nil, ErrEmptyPatch
	}

	old, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	changes := map[string]common_models.Change{}
	if req.RuleName != nil {
		fields["rule_name"] = *req.RuleName
		changes["rule_name"] = common_models.Change{Old: old.RuleName, New: *req.RuleName}
	}
	if req.RuleValue != nil {
		fields["rule_value"] = *req.RuleValue
		changes["rule_value"] = common_models.Change{Old: old.RuleValue, New: *req.RuleValue}
	}
	if req.IsEnabled != nil {
		fields["is_enabled"] = *req.IsEnabled
		changes["is_enabled"] = common_models.Change{Old: old.IsEnabled, New: *req.IsEnabled}
	}

	updated, err := s.Repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "rules", id, changes)
	s.Logger.Info("Rule updated", zap.String("rule_key", updated.RuleKey), zap.Bool("is_enabled", updated.IsEnabled))
	return updated, nil
}

func (s *RuleServiceImpl) EnabledRuleSet(ctx context.Context) (mapping.RuleSet, error) {
	stored, err := s.Repo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]mapping.Rule, 0, len(stored))
	for _, r := range stored {
		rules = append(rules, r.toMapping())
	}
	return mapping.NewRuleSet(rules), nil
}

func (s *RuleServiceImpl) SeedDefaults(ctx context.Context) (int, error) {
	added := 0
	for _, def := range DefaultRules() {
		_, err := s.CreateRule(ctx, def)
		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrDuplicateRuleKey):
			s.Logger.Debug("Rule already exists", zap.String("rule_key", def.RuleKey))
		default:
			return added, err
		}
	}
	if added > 0 {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionSeed, "rules", "", map[string]common_models.Change{
			"seeded": {Old: nil, New: added},
		})
	}
	return added, nil
}
