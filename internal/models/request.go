package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request line statuses.
const (
	LineStatusPending  = "pending"
	LineStatusApproved = "approved"
	LineStatusRejected = "rejected"
)

// Procurement request statuses.
const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusProcured = "PROCURED"
	RequestStatusClosed   = "CLOSED"
)

// RequestLine is one requested item on a procurement request. Quantity is in
// the requested (base) unit; ApprovedQuantity overrides it once an admin has
// reviewed the line.
type RequestLine struct {
	ItemName         string   `bson:"itemName" json:"itemName"`
	Brand            string   `bson:"brand,omitempty" json:"brand,omitempty"`
	Quantity         float64  `bson:"quantity" json:"quantity"`
	Unit             string   `bson:"unit" json:"unit"`
	Status           string   `bson:"status" json:"status"`
	ApprovedQuantity *float64 `bson:"approvedQuantity,omitempty" json:"approvedQuantity,omitempty"`
	Notes            string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ProcurementRequest is a purchase request raised by a requester and fulfilled
// by newly procured inventory units tagged with its reference.
type ProcurementRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID     string             `bson:"requestID" json:"requestID"`
	PONumber      string             `bson:"poNumber,omitempty" json:"poNumber,omitempty"`
	RequesterName string             `bson:"requesterName" json:"requesterName"`
	DivisionID    string             `bson:"divisionID,omitempty" json:"divisionID,omitempty"`
	Lines         []RequestLine      `bson:"lines" json:"lines"`
	Status        string             `bson:"status" json:"status"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy     string             `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
