// server/internal/api/handlers/request_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fieldops-inventory-api-server/internal/handover"
	"fieldops-inventory-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RequestHandler struct {
	DB *mongo.Database
}

type CreateRequestPayload struct {
	Lines []models.RequestLine `json:"lines" binding:"required,dive"`
	Notes string               `json:"notes"`
}

type ReviewLinePayload struct {
	Status           string   `json:"status" binding:"required,oneof=approved rejected"`
	ApprovedQuantity *float64 `json:"approvedQuantity"`
}

type ReviewRequestPayload struct {
	PONumber string              `json:"poNumber"`
	Lines    []ReviewLinePayload `json:"lines" binding:"required,dive"`
}

// CreateRequest raises a new procurement request.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	creatorUsername := c.GetString("user_username")
	creatorName := c.GetString("user_name")
	divisionID := c.GetString("user_division_id")

	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for i := range payload.Lines {
		if payload.Lines[i].Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Line %d has a non-positive quantity", i+1)})
			return
		}
		payload.Lines[i].Status = models.LineStatusPending
		payload.Lines[i].ApprovedQuantity = nil
	}

	newRequest := models.ProcurementRequest{
		RequestID:     fmt.Sprintf("REQ-%s", uuid.New().String()[:8]),
		RequesterName: creatorName,
		DivisionID:    divisionID,
		Lines:         payload.Lines,
		Status:        models.RequestStatusPending,
		Notes:         payload.Notes,
		CreatedBy:     creatorUsername,
		CreatedAt:     time.Now(),
	}

	collection := h.DB.Collection("requests")
	result, err := collection.InsertOne(context.Background(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	newRequest.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, newRequest)
}

// GetAllRequests lists procurement requests, optionally filtered by status.
func (h *RequestHandler) GetAllRequests(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	h.listRequests(c, filter)
}

// GetMyRequests lists the logged-in user's own requests.
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	filter := bson.M{"createdBy": c.GetString("user_username")}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	h.listRequests(c, filter)
}

func (h *RequestHandler) listRequests(c *gin.Context, filter bson.M) {
	collection := h.DB.Collection("requests")
	cursor, err := collection.Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.ProcurementRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode requests"})
		return
	}

	if requests == nil {
		requests = []models.ProcurementRequest{}
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequestByID fetches one request.
func (h *RequestHandler) GetRequestByID(c *gin.Context) {
	requestID := c.Param("id")

	var request models.ProcurementRequest
	err := h.DB.Collection("requests").FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

// ReviewRequest records the admin's per-line verdicts and the PO number the
// procurement went out under. Line order in the payload mirrors the request.
func (h *RequestHandler) ReviewRequest(c *gin.Context) {
	requestID := c.Param("id")

	var payload ReviewRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("requests")
	var request models.ProcurementRequest
	if err := collection.FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return
	}
	if len(payload.Lines) != len(request.Lines) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review must cover every line of the request"})
		return
	}

	for i, verdict := range payload.Lines {
		request.Lines[i].Status = verdict.Status
		request.Lines[i].ApprovedQuantity = verdict.ApprovedQuantity
		if verdict.Status == models.LineStatusApproved && verdict.ApprovedQuantity != nil && *verdict.ApprovedQuantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Line %d has a non-positive approved quantity", i+1)})
			return
		}
	}

	update := bson.M{
		"lines":  request.Lines,
		"status": models.RequestStatusApproved,
	}
	if payload.PONumber != "" {
		update["poNumber"] = payload.PONumber
	}

	if _, err := collection.UpdateOne(context.Background(), bson.M{"requestID": requestID}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "requestID": requestID})
}

// GetHandoverDraft resolves the request against the current inventory
// snapshot into a handover starting point: locked lines for procured units,
// unlocked shortfall lines for the rest.
func (h *RequestHandler) GetHandoverDraft(c *gin.Context) {
	requestID := c.Param("id")

	var request models.ProcurementRequest
	err := h.DB.Collection("requests").FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return
	}

	units, err := fetchInventoryUnits(h.DB, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query assets"})
		return
	}
	catalog, err := fetchCatalog(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query catalog"})
		return
	}

	resolver := &handover.Resolver{
		Units:       units,
		Catalog:     catalog,
		CurrentUser: c.GetString("user_name"),
	}
	state := resolver.Resolve(handover.NewRequestSource{Request: request})
	if state == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No applicable handover strategy for this request"})
		return
	}

	c.JSON(http.StatusOK, state)
}
