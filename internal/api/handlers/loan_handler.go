// server/internal/api/handlers/loan_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/handover"
	"fieldops-inventory-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LoanHandler struct {
	DB    *mongo.Database
	Cache cache.Cache
}

type CreateLoanPayload struct {
	Items   []models.LoanItem `json:"items" binding:"required,dive"`
	DueDate *time.Time        `json:"dueDate"`
	Notes   string            `json:"notes"`
}

type ApproveLoanPayload struct {
	// Assignments maps item index to the concrete asset IDs the admin picked.
	// Items left out stay unassigned and resolve at handover time.
	Assignments map[int][]string `json:"assignments"`
}

// CreateLoan raises a loan request for the logged-in technician.
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	creatorUsername := c.GetString("user_username")
	borrowerName := c.GetString("user_name")
	divisionID := c.GetString("user_division_id")

	var payload CreateLoanPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for i := range payload.Items {
		if payload.Items[i].Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Item %d has a non-positive quantity", i+1)})
			return
		}
		payload.Items[i].AssignedAssetIDs = nil
	}

	newLoan := models.LoanRequest{
		LoanID:       fmt.Sprintf("LOAN-%s", uuid.New().String()[:8]),
		BorrowerName: borrowerName,
		DivisionID:   divisionID,
		Items:        payload.Items,
		Status:       models.LoanStatusPending,
		DueDate:      payload.DueDate,
		Notes:        payload.Notes,
		CreatedBy:    creatorUsername,
		CreatedAt:    time.Now(),
	}

	collection := h.DB.Collection("loan_requests")
	result, err := collection.InsertOne(context.Background(), newLoan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create loan request"})
		return
	}

	newLoan.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, newLoan)
}

// GetAllLoans lists loan requests, optionally filtered by status.
func (h *LoanHandler) GetAllLoans(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	collection := h.DB.Collection("loan_requests")
	cursor, err := collection.Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query loan requests"})
		return
	}
	defer cursor.Close(context.Background())

	var loans []models.LoanRequest
	if err = cursor.All(context.Background(), &loans); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode loan requests"})
		return
	}

	if loans == nil {
		loans = []models.LoanRequest{}
	}
	c.JSON(http.StatusOK, loans)
}

// GetLoanByID fetches one loan request.
func (h *LoanHandler) GetLoanByID(c *gin.Context) {
	loanID := c.Param("id")

	var loan models.LoanRequest
	err := h.DB.Collection("loan_requests").FindOne(context.Background(), bson.M{"loanID": loanID}).Decode(&loan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan request"})
		}
		return
	}
	c.JSON(http.StatusOK, loan)
}

// ApproveLoan locks in the loan, optionally with specific units already
// picked per item. Assigned units must exist and be in storage.
func (h *LoanHandler) ApproveLoan(c *gin.Context) {
	loanID := c.Param("id")

	var payload ApproveLoanPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("loan_requests")
	var loan models.LoanRequest
	if err := collection.FindOne(context.Background(), bson.M{"loanID": loanID, "status": models.LoanStatusPending}).Decode(&loan); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "Loan request is not pending approval"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan request"})
		}
		return
	}

	assetCollection := h.DB.Collection("assets")
	for idx, assetIDs := range payload.Assignments {
		if idx < 0 || idx >= len(loan.Items) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Assignment index %d is out of range", idx)})
			return
		}
		for _, assetID := range assetIDs {
			count, err := assetCollection.CountDocuments(context.Background(), bson.M{"assetID": assetID, "status": models.StatusInStorage})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking assigned asset"})
				return
			}
			if count == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Assigned asset not available: %s", assetID)})
				return
			}
		}
		loan.Items[idx].AssignedAssetIDs = assetIDs
	}

	_, err := collection.UpdateOne(context.Background(), bson.M{"loanID": loanID}, bson.M{"$set": bson.M{
		"items":  loan.Items,
		"status": models.LoanStatusApproved,
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve loan request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "loanID": loanID})
}

// ReturnLoan closes out an active loan and puts the borrowed units back into
// storage.
func (h *LoanHandler) ReturnLoan(c *gin.Context) {
	loanID := c.Param("id")

	collection := h.DB.Collection("loan_requests")
	var loan models.LoanRequest
	if err := collection.FindOne(context.Background(), bson.M{"loanID": loanID}).Decode(&loan); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan request"})
		}
		return
	}

	session, err := h.DB.Client().StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start database session"})
		return
	}
	defer session.EndSession(context.Background())

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		assetCollection := h.DB.Collection("assets")
		for _, item := range loan.Items {
			for _, assetID := range item.AssignedAssetIDs {
				if _, err := assetCollection.UpdateOne(sessCtx, bson.M{"assetID": assetID}, bson.M{"$set": bson.M{
					"status":      models.StatusInStorage,
					"currentUser": "",
				}}); err != nil {
					return nil, err
				}
			}
		}
		if _, err := collection.UpdateOne(sessCtx, bson.M{"loanID": loanID}, bson.M{"$set": bson.M{
			"status": models.LoanStatusReturned,
		}}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if _, err := session.WithTransaction(context.Background(), callback); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed", "details": err.Error()})
		return
	}

	dropStockAlertCache(h.Cache)
	c.JSON(http.StatusOK, gin.H{"status": "success", "loanID": loanID})
}

// GetHandoverDraft resolves the loan into a handover starting point.
func (h *LoanHandler) GetHandoverDraft(c *gin.Context) {
	loanID := c.Param("id")

	var loan models.LoanRequest
	err := h.DB.Collection("loan_requests").FindOne(context.Background(), bson.M{"loanID": loanID}).Decode(&loan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan request"})
		}
		return
	}

	units, err := fetchInventoryUnits(h.DB, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query assets"})
		return
	}

	resolver := &handover.Resolver{
		Units:       units,
		CurrentUser: c.GetString("user_name"),
	}
	state := resolver.Resolve(handover.LoanSource{Loan: loan})
	if state == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No applicable handover strategy for this loan"})
		return
	}

	c.JSON(http.StatusOK, state)
}
