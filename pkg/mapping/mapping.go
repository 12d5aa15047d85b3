// Package mapping turns a PLM item plus the enabled rule set into a Cin7 product payload.
//
// Rules are a lookup table keyed by rule key. There is no priority chain: every key
// maps a disjoint slot of the payload, so the order rules were loaded in never
// affects the result.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"plm-connector/internal/common/models"
)

// Rule keys consumed by the engine.
const (
	KeyProductType       = "ProductType"
	KeyRevenueAccount    = "RevenueAccount"
	KeyDefaultLocation   = "DefaultLocation"
	KeyAssemblyBOM       = "AssemblyBOM"
	KeyTransferFilter    = "TransferFilter"
	KeyAllowedLifecycles = "AllowedLifecycles"

	// RevenueAccount:<category> overrides RevenueAccount for one item category.
	revenueAccountPrefix = KeyRevenueAccount + ":"
)

// Item attributes read by the engine.
const (
	AttrTransferToERP          = "Transfer Data to ERP?"
	AttrManufacturer           = "Manufacturer"
	AttrManufacturerItemNumber = "Manufacturer Item Number"
)

const stockControlFIFO = "FIFO"

// requiredKeys are checked in this order so the reported key is stable.
var requiredKeys = []string{KeyProductType, KeyRevenueAccount, KeyDefaultLocation}

// ErrItemExcluded marks an item that the eligibility rules filter out. It is not a failure.
var ErrItemExcluded = errors.New("item excluded by eligibility rules")

// MappingError reports a required rule that is missing or disabled.
type MappingError struct {
	ItemNumber string
	Key        string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("item %s: missing rule %s", e.ItemNumber, e.Key)
}

// Rule is the engine's view of a stored mapping rule.
type Rule struct {
	Key     string
	Value   string
	Enabled bool
}

// RuleSet is the lookup table of enabled rules.
type RuleSet map[string]string

// NewRuleSet builds the lookup table, dropping disabled rules.
func NewRuleSet(rules []Rule) RuleSet {
	set := make(RuleSet, len(rules))
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		set[r.Key] = r.Value
	}
	return set
}

// Lookup returns the value of an enabled rule.
func (s RuleSet) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// MapItem builds the destination payload for one item. It is pure: the same item and
// rule set always produce the same payload.
func MapItem(item models.Item, rules RuleSet) (*models.Payload, error) {
	if err := checkEligibility(item, rules); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		v, ok := rules.Lookup(key)
		if !ok {
			return nil, &MappingError{ItemNumber: item.Number, Key: key}
		}
		values[key] = v
	}

	if item.Category != "" {
		if v, ok := rules.Lookup(revenueAccountPrefix + item.Category); ok {
			values[KeyRevenueAccount] = v
		}
	}

	payload := &models.Payload{
		ProductCode:          item.Number,
		Name:                 item.Name,
		Description:          item.Description,
		Category:             item.Category,
		DefaultUnitOfMeasure: item.UnitOfMeasure,
		AdditionalAttribute1: item.Revision,
		AdditionalAttribute4: manufacturerRef(item),
		StockControl:         stockControlFIFO,
		OrderType:            values[KeyProductType],
		SalesAccount:         values[KeyRevenueAccount],
		DefaultLocation:      values[KeyDefaultLocation],
	}

	if len(item.BOM) > 0 {
		includeBOM, ok := rules.Lookup(KeyAssemblyBOM)
		if !ok {
			return nil, &MappingError{ItemNumber: item.Number, Key: KeyAssemblyBOM}
		}
		if strings.EqualFold(strings.TrimSpace(includeBOM), "yes") {
			payload.BillOfMaterials = make([]models.PayloadBOMLine, 0, len(item.BOM))
			for _, line := range item.BOM {
				payload.BillOfMaterials = append(payload.BillOfMaterials, models.PayloadBOMLine{
					ProductCode: line.ItemNumber,
					Quantity:    json.Number(line.Quantity.String()),
					LineNumber:  line.LineNumber,
				})
			}
		}
	}

	return payload, nil
}

func checkEligibility(item models.Item, rules RuleSet) error {
	if want, ok := rules.Lookup(KeyTransferFilter); ok && strings.TrimSpace(want) != "" {
		got := strings.TrimSpace(item.Attribute(AttrTransferToERP))
		if !strings.EqualFold(got, strings.TrimSpace(want)) {
			return fmt.Errorf("%w: item %s: %q is %q", ErrItemExcluded, item.Number, AttrTransferToERP, got)
		}
	}

	if allowed, ok := rules.Lookup(KeyAllowedLifecycles); ok && strings.TrimSpace(allowed) != "" {
		if !containsFold(splitList(allowed), item.LifecyclePhase) {
			return fmt.Errorf("%w: item %s: lifecycle %q not allowed", ErrItemExcluded, item.Number, item.LifecyclePhase)
		}
	}

	return nil
}

func manufacturerRef(item models.Item) string {
	ref := item.Attribute(AttrManufacturer) + " " + item.Attribute(AttrManufacturerItemNumber)
	return strings.TrimSpace(ref)
}

// MatchesPrefix reports whether an item number passes the prefix filter.
// The filter is a comma-separated list of prefixes; an empty filter or "*" matches everything,
// and a trailing "*" on a prefix is ignored.
func MatchesPrefix(number, filter string) bool {
	prefixes := splitList(filter)
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "*")
		if p == "" || strings.HasPrefix(number, p) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
