// server/internal/api/handlers/dismantle_handler.go
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

type DismantleHandler struct {
	DB *mongo.Database
}

type CreateDismantlePayload struct {
	CustomerName       string     `json:"customerName" binding:"required"`
	AssetID            string     `json:"assetID" binding:"required"`
	RetrievedCondition string     `json:"retrievedCondition"`
	DismantleDate      *time.Time `json:"dismantleDate"`
	Notes              string     `json:"notes"`
}

// CreateDismantle records a device retrieval. The unit goes into
// awaiting_return until the warehouse processes the handover back into
// storage.
func (h *DismantleHandler) CreateDismantle(c *gin.Context) {
	creatorUsername := c.GetString("user_username")
	technicianName := c.GetString("user_name")

	var payload CreateDismantlePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var unit models.InventoryUnit
	assetCollection := h.DB.Collection("assets")
	if err := assetCollection.FindOne(context.Background(), bson.M{"assetID": payload.AssetID}).Decode(&unit); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dismantled asset does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve asset"})
		}
		return
	}

	dismantleDate := time.Now()
	if payload.DismantleDate != nil {
		dismantleDate = *payload.DismantleDate
	}

	newDismantle := models.Dismantle{
		DismantleID:        fmt.Sprintf("DSM-%s", uuid.New().String()[:8]),
		CustomerName:       payload.CustomerName,
		TechnicianName:     technicianName,
		AssetID:            unit.AssetID,
		ItemName:           unit.Name,
		Brand:              unit.Brand,
		RetrievedCondition: payload.RetrievedCondition,
		DismantleDate:      dismantleDate,
		Notes:              payload.Notes,
		CreatedBy:          creatorUsername,
		CreatedAt:          time.Now(),
	}

	result, err := h.DB.Collection("dismantles").InsertOne(context.Background(), newDismantle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dismantle record"})
		return
	}
	newDismantle.ID = result.InsertedID.(primitive.ObjectID)

	update := bson.M{
		"status":      models.StatusAwaitingReturn,
		"currentUser": technicianName,
	}
	if payload.RetrievedCondition != "" {
		update["condition"] = payload.RetrievedCondition
	}
	if _, err := assetCollection.UpdateOne(context.Background(), bson.M{"assetID": unit.AssetID}, bson.M{"$set": update}); err != nil {
		// The record exists; the status sync can be retried manually.
		c.JSON(http.StatusCreated, gin.H{"dismantle": newDismantle, "warning": "Failed to update asset status"})
		return
	}

	c.JSON(http.StatusCreated, newDismantle)
}

// GetAllDismantles lists dismantle records.
func (h *DismantleHandler) GetAllDismantles(c *gin.Context) {
	filter := bson.M{}
	if customer := c.Query("customer"); customer != "" {
		filter["customerName"] = bson.M{"$regex": customer, "$options": "i"}
	}

	cursor, err := h.DB.Collection("dismantles").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query dismantles"})
		return
	}
	defer cursor.Close(context.Background())

	var dismantles []models.Dismantle
	if err = cursor.All(context.Background(), &dismantles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode dismantles"})
		return
	}

	if dismantles == nil {
		dismantles = []models.Dismantle{}
	}
	c.JSON(http.StatusOK, dismantles)
}

// GetDismantleByID fetches one dismantle record.
func (h *DismantleHandler) GetDismantleByID(c *gin.Context) {
	dismantleID := c.Param("id")

	var dismantle models.Dismantle
	err := h.DB.Collection("dismantles").FindOne(context.Background(), bson.M{"dismantleID": dismantleID}).Decode(&dismantle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dismantle record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dismantle record"})
		}
		return
	}
	c.JSON(http.StatusOK, dismantle)
}

// GetHandoverDraft resolves the dismantle into the handover that brings the
// asset back into storage. The recipient is whoever is processing the return.
func (h *DismantleHandler) GetHandoverDraft(c *gin.Context) {
	dismantleID := c.Param("id")

	var dismantle models.Dismantle
	err := h.DB.Collection("dismantles").FindOne(context.Background(), bson.M{"dismantleID": dismantleID}).Decode(&dismantle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dismantle record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dismantle record"})
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
	state := resolver.Resolve(handover.DismantleSource{Dismantle: dismantle})
	if state == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No applicable handover strategy for this dismantle"})
		return
	}

	c.JSON(http.StatusOK, state)
}
