package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionUpdate   AuditAction = "UPDATE"
	AuditActionSync     AuditAction = "SYNC"
	AuditActionSettings AuditAction = "SETTINGS"
	AuditActionSeed     AuditAction = "SEED"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`                       // rules, settings, sync
	RecordID  string             `bson:"record_id" json:"record_id"`                 // The ID of the record being modified
	ActorID   string             `bson:"actor_id" json:"actor_id"`                   // User ID who performed the action
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"` // For updates: field -> {old, new}
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Item status a change must reach before its items are eligible for sync.
const ItemStatusCompleted = "Completed"

// Item is the read-only projection of a PLM item.
type Item struct {
	GUID           string            `json:"guid" bson:"guid"`
	Number         string            `json:"number" bson:"number"`
	Status         string            `json:"status" bson:"status"`
	Name           string            `json:"name" bson:"name"`
	Description    string            `json:"description,omitempty" bson:"description,omitempty"`
	Category       string            `json:"category,omitempty" bson:"category,omitempty"`
	Revision       string            `json:"revision,omitempty" bson:"revision,omitempty"`
	UnitOfMeasure  string            `json:"unit_of_measure,omitempty" bson:"unit_of_measure,omitempty"`
	LifecyclePhase string            `json:"lifecycle_phase,omitempty" bson:"lifecycle_phase,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
	BOM            []BOMLine         `json:"bom,omitempty" bson:"bom,omitempty"`

	// LoadError is set when the item was listed but its details could not be read.
	LoadError string `json:"load_error,omitempty" bson:"-"`
}

// BOMLine is one component reference of an item's bill of materials.
type BOMLine struct {
	LineNumber int             `json:"line_number" bson:"line_number"`
	ItemGUID   string          `json:"item_guid" bson:"item_guid"`
	ItemNumber string          `json:"item_number" bson:"item_number"`
	Quantity   decimal.Decimal `json:"quantity" bson:"-"`
}

// Attribute returns the named attribute value, or "" when absent.
func (i Item) Attribute(name string) string {
	if i.Attributes == nil {
		return ""
	}
	return i.Attributes[name]
}

// Payload is the commerce product record built from an item and the enabled rules.
// Field names follow the Cin7 Omni product resource.
type Payload struct {
	ProductCode          string           `json:"ProductCode" bson:"product_code"`
	Name                 string           `json:"Name" bson:"name"`
	Description          string           `json:"Description,omitempty" bson:"description,omitempty"`
	Category             string           `json:"Category,omitempty" bson:"category,omitempty"`
	DefaultUnitOfMeasure string           `json:"DefaultUnitOfMeasure,omitempty" bson:"default_unit_of_measure,omitempty"`
	AdditionalAttribute1 string           `json:"AdditionalAttribute1,omitempty" bson:"additional_attribute1,omitempty"`
	AdditionalAttribute4 string           `json:"AdditionalAttribute4,omitempty" bson:"additional_attribute4,omitempty"`
	StockControl         string           `json:"StockControl" bson:"stock_control"`
	OrderType            string           `json:"OrderType" bson:"order_type"`
	SalesAccount         string           `json:"SalesAccount" bson:"sales_account"`
	DefaultLocation      string           `json:"DefaultLocation" bson:"default_location"`
	BillOfMaterials      []PayloadBOMLine `json:"BillOfMaterials,omitempty" bson:"bill_of_materials,omitempty"`
}

type PayloadBOMLine struct {
	ProductCode string      `json:"ProductCode" bson:"product_code"`
	Quantity    json.Number `json:"Quantity" bson:"quantity"`
	LineNumber  int         `json:"LineNumber" bson:"line_number"`
}

// HasBOM reports whether the payload carries assembly components.
func (p *Payload) HasBOM() bool {
	return p != nil && len(p.BillOfMaterials) > 0
}
