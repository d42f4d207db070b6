package models

import "time"

// Cattle statuses. "Deleted" cattle are usually a status transition rather
// than a document removal; the explicit deleteCattle action is the exception.
const (
	CattleStatusActive   = "Active"
	CattleStatusSold     = "Sold"
	CattleStatusDeceased = "Deceased"
	CattleStatusCulled   = "Culled"
)

// Health statuses tracked per head.
const (
	HealthStatusHealthy    = "Healthy"
	HealthStatusSick       = "Sick"
	HealthStatusTreatment  = "Treatment"
	HealthStatusQuarantine = "Quarantine"
)

// Cattle is one head of cattle owned by a single user.
type Cattle struct {
	ID            string    `bson:"_id" json:"id"`
	UserID        string    `bson:"user_id" json:"userId"`
	TagNumber     string    `bson:"tag_number" json:"tagNumber"`
	RFIDTag       string    `bson:"rfid_tag,omitempty" json:"rfidTag,omitempty"`
	VisualTag     string    `bson:"visual_tag,omitempty" json:"visualTag,omitempty"`
	Breed         string    `bson:"breed" json:"breed"`
	Sex           string    `bson:"sex" json:"sex"`
	BirthDate     time.Time `bson:"birth_date,omitempty" json:"birthDate,omitempty"`
	Stage         string    `bson:"stage,omitempty" json:"stage,omitempty"`
	BarnID        string    `bson:"barn_id,omitempty" json:"barnId,omitempty"`
	PenID         string    `bson:"pen_id,omitempty" json:"penId,omitempty"`
	Status        string    `bson:"status" json:"status"`
	HealthStatus  string    `bson:"health_status" json:"healthStatus"`
	PurchasePrice float64   `bson:"purchase_price,omitempty" json:"purchasePrice,omitempty"`
	PurchaseWt    float64   `bson:"purchase_weight,omitempty" json:"purchaseWeight,omitempty"`
	CurrentWeight float64   `bson:"current_weight" json:"currentWeight"`
	CurrentValue  float64   `bson:"current_value,omitempty" json:"currentValue,omitempty"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// Pen is a subdivision of a barn holding cattle. CurrentCount is denormalized
// and drifts under concurrent writes; the scheduler reconciles it against the
// actual count of Active cattle.
type Pen struct {
	ID           string    `bson:"_id" json:"id"`
	UserID       string    `bson:"user_id" json:"userId"`
	Name         string    `bson:"name" json:"name"`
	BarnID       string    `bson:"barn_id,omitempty" json:"barnId,omitempty"`
	Capacity     int       `bson:"capacity" json:"capacity"`
	CurrentCount int       `bson:"current_count" json:"currentCount"`
	Layout       *Layout   `bson:"layout,omitempty" json:"layout,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Barn groups pens and carries an optional visual layout for the barn map.
type Barn struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Name      string    `bson:"name" json:"name"`
	Capacity  int       `bson:"capacity" json:"capacity"`
	Layout    *Layout   `bson:"layout,omitempty" json:"layout,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Layout is the drag-and-drop rectangle persisted for the barn map UI.
type Layout struct {
	X      float64 `bson:"x" json:"x"`
	Y      float64 `bson:"y" json:"y"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// WeightRecord is an append-only weight measurement for one head.
type WeightRecord struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"userId"`
	CattleID   string    `bson:"cattle_id" json:"cattleId"`
	Weight     float64   `bson:"weight" json:"weight"`
	RecordedAt time.Time `bson:"recorded_at" json:"recordedAt"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Activity is a free-form log entry shown in the recent-activity feed.
type Activity struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"userId"`
	Type        string    `bson:"type" json:"type"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
