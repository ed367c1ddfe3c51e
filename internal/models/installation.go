package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstalledAsset is a device left at the customer site.
type InstalledAsset struct {
	AssetID      string `bson:"assetID" json:"assetID"`
	ItemName     string `bson:"itemName" json:"itemName"`
	Brand        string `bson:"brand,omitempty" json:"brand,omitempty"`
	SerialNumber string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
}

// MaterialUsage is consumable stock used up during the job. MaterialAssetID
// points at the unit the quantity was drawn from when it is already known.
type MaterialUsage struct {
	MaterialAssetID string  `bson:"materialAssetID,omitempty" json:"materialAssetID,omitempty"`
	ItemName        string  `bson:"itemName" json:"itemName"`
	Brand           string  `bson:"brand,omitempty" json:"brand,omitempty"`
	Quantity        float64 `bson:"quantity" json:"quantity"`
	Unit            string  `bson:"unit" json:"unit"`
}

// Installation records a customer install or maintenance visit.
type Installation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstallationID  string             `bson:"installationID" json:"installationID"`
	CustomerName    string             `bson:"customerName" json:"customerName"`
	CustomerID      string             `bson:"customerID,omitempty" json:"customerID,omitempty"`
	TechnicianName  string             `bson:"technicianName" json:"technicianName"`
	AssetsInstalled []InstalledAsset   `bson:"assetsInstalled" json:"assetsInstalled"`
	MaterialsUsed   []MaterialUsage    `bson:"materialsUsed,omitempty" json:"materialsUsed,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
