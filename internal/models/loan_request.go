package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loan request statuses.
const (
	LoanStatusPending  = "PENDING"
	LoanStatusApproved = "APPROVED"
	LoanStatusActive   = "ACTIVE"
	LoanStatusReturned = "RETURNED"
)

// LoanItem is one requested item on a loan. When the admin approves the loan
// with specific units picked, their asset IDs land in AssignedAssetIDs.
type LoanItem struct {
	ItemName         string   `bson:"itemName" json:"itemName"`
	Brand            string   `bson:"brand,omitempty" json:"brand,omitempty"`
	Quantity         float64  `bson:"quantity" json:"quantity"`
	Unit             string   `bson:"unit" json:"unit"`
	AssignedAssetIDs []string `bson:"assignedAssetIDs,omitempty" json:"assignedAssetIDs,omitempty"`
}

// LoanRequest records a technician borrowing units from the warehouse.
type LoanRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LoanID       string             `bson:"loanID" json:"loanID"`
	BorrowerName string             `bson:"borrowerName" json:"borrowerName"`
	DivisionID   string             `bson:"divisionID,omitempty" json:"divisionID,omitempty"`
	Items        []LoanItem         `bson:"items" json:"items"`
	Status       string             `bson:"status" json:"status"`
	DueDate      *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy    string             `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
