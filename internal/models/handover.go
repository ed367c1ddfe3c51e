package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handover statuses.
const (
	HandoverStatusDraft     = "DRAFT"
	HandoverStatusCompleted = "COMPLETED"
)

// HandoverLineItem is one transaction-ready line of a handover. AssetID stays
// empty on a shortfall placeholder until the user resolves it to a concrete
// unit. IsLocked means the line's unit is fixed by the source document.
type HandoverLineItem struct {
	AssetID        string  `bson:"assetID,omitempty" json:"assetID"`
	ItemName       string  `bson:"itemName" json:"itemName"`
	Brand          string  `bson:"brand,omitempty" json:"brand,omitempty"`
	ConditionNotes string  `bson:"conditionNotes,omitempty" json:"conditionNotes,omitempty"`
	Quantity       float64 `bson:"quantity" json:"quantity"`
	Unit           string  `bson:"unit,omitempty" json:"unit,omitempty"`
	Checked        bool    `bson:"checked" json:"checked"`
	IsLocked       bool    `bson:"isLocked" json:"isLocked"`
}

// HandoverInitialState is the normalized result of resolving a source
// document. TargetAssetStatus is the status every resolved unit transitions
// to once the handover completes.
type HandoverInitialState struct {
	Recipient         string             `json:"recipient"`
	DivisionID        string             `json:"divisionID,omitempty"`
	Reference         string             `json:"reference,omitempty"`
	Items             []HandoverLineItem `json:"items"`
	Notes             string             `json:"notes,omitempty"`
	IsLocked          bool               `json:"isLocked"`
	TargetAssetStatus string             `json:"targetAssetStatus"`
}

// Handover is the persisted transfer document.
type Handover struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HandoverID        string             `bson:"handoverID" json:"handoverID"`
	Recipient         string             `bson:"recipient" json:"recipient"`
	DivisionID        string             `bson:"divisionID,omitempty" json:"divisionID,omitempty"`
	Reference         string             `bson:"reference,omitempty" json:"reference,omitempty"`
	Items             []HandoverLineItem `bson:"items" json:"items"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TargetAssetStatus string             `bson:"targetAssetStatus" json:"targetAssetStatus"`
	Status            string             `bson:"status" json:"status"`
	ProofPhotoURL     string             `bson:"proofPhotoURL,omitempty" json:"proofPhotoURL,omitempty"`
	HandedOverBy      string             `bson:"handedOverBy" json:"handedOverBy"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	CompletedAt       *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
