package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tracking methods.
const (
	TrackingIndividual = "individual"
	TrackingBulk       = "bulk"
)

// Bulk types. Count stock is consumed whole unit by whole unit, measurement
// stock carries a divisible remaining balance inside one container.
const (
	BulkTypeCount       = "count"
	BulkTypeMeasurement = "measurement"
)

// Unit statuses.
const (
	StatusInStorage      = "in_storage"
	StatusInUse          = "in_use"
	StatusInCustody      = "in_custody"
	StatusUnderRepair    = "under_repair"
	StatusOutForRepair   = "out_for_repair"
	StatusDamaged        = "damaged"
	StatusDecommissioned = "decommissioned"
	StatusAwaitingReturn = "awaiting_return"
	StatusConsumed       = "consumed"
)

// InventoryUnit is a single trackable unit of stock. For count stock one
// document is one countable item; for measurement stock the document is the
// container and CurrentBalance is what is left inside it.
type InventoryUnit struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID        string             `bson:"assetID" json:"assetID"`
	Name           string             `bson:"name" json:"name"`
	Brand          string             `bson:"brand" json:"brand"`
	SerialNumber   string             `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	TrackingMethod string             `bson:"trackingMethod" json:"trackingMethod"`
	BulkType       string             `bson:"bulkType,omitempty" json:"bulkType,omitempty"`

	// Unit is the container unit ("Drum", "Roll"), BaseUnit the consumable
	// unit inside it ("Meter"). Both empty for individually tracked items.
	Unit     string `bson:"unit,omitempty" json:"unit,omitempty"`
	BaseUnit string `bson:"baseUnit,omitempty" json:"baseUnit,omitempty"`

	// Balances are pointers so that absence stays distinguishable from zero.
	InitialBalance *float64 `bson:"initialBalance,omitempty" json:"initialBalance,omitempty"`
	CurrentBalance *float64 `bson:"currentBalance,omitempty" json:"currentBalance,omitempty"`

	// IsFragment marks a remnant carved off a measurement container. Fragments
	// never count toward container-level stock alerts.
	IsFragment bool `bson:"isFragment,omitempty" json:"isFragment,omitempty"`

	Status      string `bson:"status" json:"status"`
	CurrentUser string `bson:"currentUser,omitempty" json:"currentUser,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
	Condition   string `bson:"condition,omitempty" json:"condition,omitempty"`

	// ProcurementRef ties a newly procured unit back to the purchase request
	// (PO number or internal reference) it was bought under.
	ProcurementRef string `bson:"procurementRef,omitempty" json:"procurementRef,omitempty"`

	RegistrationDate time.Time `bson:"registrationDate" json:"registrationDate"`
	RecordedBy       string    `bson:"recordedBy,omitempty" json:"recordedBy,omitempty"`
}
