package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dismantle records a device retrieved from a customer site on churn or
// relocation. The retrieved condition is what the technician observed on site
// and is not renegotiable at handover time.
type Dismantle struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DismantleID        string             `bson:"dismantleID" json:"dismantleID"`
	CustomerName       string             `bson:"customerName" json:"customerName"`
	TechnicianName     string             `bson:"technicianName" json:"technicianName"`
	AssetID            string             `bson:"assetID" json:"assetID"`
	ItemName           string             `bson:"itemName" json:"itemName"`
	Brand              string             `bson:"brand,omitempty" json:"brand,omitempty"`
	RetrievedCondition string             `bson:"retrievedCondition,omitempty" json:"retrievedCondition,omitempty"`
	DismantleDate      time.Time          `bson:"dismantleDate" json:"dismantleDate"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy          string             `bson:"createdBy" json:"createdBy"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}
