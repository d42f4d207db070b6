package models

import "time"

// Inventory categories.
const (
	InventoryCategoryDrug       = "drug"
	InventoryCategoryFeed       = "feed"
	InventoryCategorySupplement = "supplement"
)

// InventoryItem is a stocked drug, feed or supplement. Quantity falls during
// treatments and feeding; ReorderPoint drives the low-stock alert list.
type InventoryItem struct {
	ID               string    `bson:"_id" json:"id"`
	UserID           string    `bson:"user_id" json:"userId"`
	Name             string    `bson:"name" json:"name"`
	Category         string    `bson:"category" json:"category"`
	Quantity         float64   `bson:"quantity" json:"quantity"`
	Unit             string    `bson:"unit,omitempty" json:"unit,omitempty"`
	ReorderPoint     float64   `bson:"reorder_point" json:"reorderPoint"`
	ReorderQuantity  float64   `bson:"reorder_quantity,omitempty" json:"reorderQuantity,omitempty"`
	CostPerUnit      float64   `bson:"cost_per_unit,omitempty" json:"costPerUnit,omitempty"`
	ExpirationDate   time.Time `bson:"expiration_date,omitempty" json:"expirationDate,omitempty"`
	WithdrawalPeriod int       `bson:"withdrawal_period,omitempty" json:"withdrawalPeriod,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// LowStock reports whether the item sits at or below its reorder point.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderPoint
}

// HealthRecord is one administered treatment or health event. Append-only.
type HealthRecord struct {
	ID               string    `bson:"_id" json:"id"`
	UserID           string    `bson:"user_id" json:"userId"`
	CattleID         string    `bson:"cattle_id" json:"cattleId"`
	CattleTag        string    `bson:"cattle_tag,omitempty" json:"cattleTag,omitempty"`
	Type             string    `bson:"type" json:"type"`
	Description      string    `bson:"description,omitempty" json:"description,omitempty"`
	DrugID           string    `bson:"drug_id,omitempty" json:"drugId,omitempty"`
	DrugName         string    `bson:"drug_name,omitempty" json:"drugName,omitempty"`
	Dosage           string    `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Cost             float64   `bson:"cost,omitempty" json:"cost,omitempty"`
	WithdrawalPeriod int       `bson:"withdrawal_period,omitempty" json:"withdrawalPeriod,omitempty"`
	RecordedAt       time.Time `bson:"recorded_at" json:"recordedAt"`
}
