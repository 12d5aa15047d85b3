package rules

import (
	"errors"

	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RuleController struct {
	Service RuleService
}

func NewRuleController(service RuleService) *RuleController {
	return &RuleController{Service: service}
}

// ListRules godoc
// @Summary List mapping rules
// @Tags rules
// @Produce json
// @Success 200 {array} SyncRule
// @Failure 500 {object} map[string]interface{}
// @Router /rules [get]
func (ctrl *RuleController) ListRules(c *fiber.Ctx) error {
	rules, err := ctrl.Service.ListRules(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rules)
}

// CreateRule godoc
// @Summary Create a mapping rule
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body CreateRuleRequest true "Rule"
// @Success 201 {object} SyncRule
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /rules [post]
func (ctrl *RuleController) CreateRule(c *fiber.Ctx) error {
	var req CreateRuleRequest
	if ok, err := middleware.ParseAndValidate(c, &req); !ok {
		return err
	}

	rule, err := ctrl.Service.CreateRule(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBlankRuleKey):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrDuplicateRuleKey):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// UpdateRule godoc
// @Summary Patch a mapping rule
// @Description Updates rule_name, rule_value and/or is_enabled. rule_key is immutable.
// @Tags rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body UpdateRuleRequest true "Patch"
// @Success 200 {object} SyncRule
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /rules/{id} [put]
func (ctrl *RuleController) UpdateRule(c *fiber.Ctx) error {
	var req UpdateRuleRequest
	if ok, err := middleware.ParseAndValidate(c, &req); !ok {
		return err
	}

	rule, err := ctrl.Service.UpdateRule(c.UserContext(), c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyPatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrRuleNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rule)
}
