// server/internal/api/handlers/handover_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/handover"
	"fieldops-inventory-api-server/internal/models"
	"fieldops-inventory-api-server/internal/s3"
	"fieldops-inventory-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type HandoverHandler struct {
	DB         *mongo.Database
	Hub        *socket.Hub
	Cache      cache.Cache
	S3Uploader *s3.Uploader
}

type CreateHandoverPayload struct {
	Recipient         string                    `json:"recipient" binding:"required"`
	DivisionID        string                    `json:"divisionID"`
	Reference         string                    `json:"reference"`
	Items             []models.HandoverLineItem `json:"items" binding:"required,dive"`
	Notes             string                    `json:"notes"`
	TargetAssetStatus string                    `json:"targetAssetStatus" binding:"required"`
}

// CreateHandover persists a completed handover. Every line must be resolved
// to a concrete unit by now; the whole unit transition plus the document
// insert runs in one transaction so a failed write leaves nothing half-moved.
func (h *HandoverHandler) CreateHandover(c *gin.Context) {
	handedOverBy := c.GetString("user_name")

	var payload CreateHandoverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(payload.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Handover needs at least one item"})
		return
	}

	assetCollection := h.DB.Collection("assets")
	resolvedUnits := make(map[string]models.InventoryUnit)
	for i, item := range payload.Items {
		if item.AssetID == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Line %d is not resolved to a stock unit yet", i+1)})
			return
		}

		var unit models.InventoryUnit
		if err := assetCollection.FindOne(context.Background(), bson.M{"assetID": item.AssetID}).Decode(&unit); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Stock unit not found: %s", item.AssetID)})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check stock unit"})
			}
			return
		}
		if err := handover.ValidateLineItem(item, &unit); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		resolvedUnits[item.AssetID] = unit
	}

	now := time.Now()
	newHandover := models.Handover{
		HandoverID:        fmt.Sprintf("HO-%s", uuid.New().String()[:8]),
		Recipient:         payload.Recipient,
		DivisionID:        payload.DivisionID,
		Reference:         payload.Reference,
		Items:             payload.Items,
		Notes:             payload.Notes,
		TargetAssetStatus: payload.TargetAssetStatus,
		Status:            models.HandoverStatusCompleted,
		HandedOverBy:      handedOverBy,
		CreatedAt:         now,
		CompletedAt:       &now,
	}

	session, err := h.DB.Client().StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start database session"})
		return
	}
	defer session.EndSession(context.Background())

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		// Custody transfer changes status and holder, never the balance.
		currentUser := payload.Recipient
		if payload.TargetAssetStatus == models.StatusInStorage {
			currentUser = ""
		}
		for assetID := range resolvedUnits {
			update := bson.M{
				"status":      payload.TargetAssetStatus,
				"currentUser": currentUser,
			}
			result, err := assetCollection.UpdateOne(sessCtx, bson.M{"assetID": assetID}, bson.M{"$set": update})
			if err != nil {
				return nil, err
			}
			if result.MatchedCount == 0 {
				return nil, fmt.Errorf("stock unit disappeared during handover: %s", assetID)
			}
		}

		result, err := h.DB.Collection("handovers").InsertOne(sessCtx, newHandover)
		if err != nil {
			return nil, err
		}
		newHandover.ID = result.InsertedID.(primitive.ObjectID)
		return newHandover, nil
	}

	if _, err := session.WithTransaction(context.Background(), callback); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed", "details": err.Error()})
		return
	}

	dropStockAlertCache(h.Cache)
	seen := make(map[string]bool)
	for _, unit := range resolvedUnits {
		modelKey := unit.Name + "|" + unit.Brand
		if !seen[modelKey] {
			seen[modelKey] = true
			notifyIfCritical(h.DB, h.Hub, unit.Name, unit.Brand)
		}
	}

	if h.Hub != nil {
		notification := map[string]interface{}{
			"event":    "handover_completed",
			"handover": newHandover,
		}
		notificationJSON, _ := json.Marshal(notification)
		h.Hub.Send(payload.Recipient, notificationJSON)
	}

	c.JSON(http.StatusCreated, newHandover)
}

// GetAllHandovers lists handover documents, optionally by recipient.
func (h *HandoverHandler) GetAllHandovers(c *gin.Context) {
	filter := bson.M{}
	if recipient := c.Query("recipient"); recipient != "" {
		filter["recipient"] = bson.M{"$regex": recipient, "$options": "i"}
	}

	cursor, err := h.DB.Collection("handovers").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query handovers"})
		return
	}
	defer cursor.Close(context.Background())

	var handovers []models.Handover
	if err = cursor.All(context.Background(), &handovers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode handovers"})
		return
	}

	if handovers == nil {
		handovers = []models.Handover{}
	}
	c.JSON(http.StatusOK, handovers)
}

// GetHandoverByID fetches one handover document.
func (h *HandoverHandler) GetHandoverByID(c *gin.Context) {
	handoverID := c.Param("id")

	var doc models.Handover
	err := h.DB.Collection("handovers").FindOne(context.Background(), bson.M{"handoverID": handoverID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Handover not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve handover"})
		}
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UploadProofPhoto attaches the signed proof photo to a completed handover.
func (h *HandoverHandler) UploadProofPhoto(c *gin.Context) {
	handoverID := c.Param("id")

	if h.S3Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	collection := h.DB.Collection("handovers")
	count, err := collection.CountDocuments(context.Background(), bson.M{"handoverID": handoverID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Handover not found"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("handovers/%s/proof-%s.jpg", handoverID, uuid.New().String()[:8])
	url, err := h.S3Uploader.UploadFile(context.Background(), file, objectKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	if _, err := collection.UpdateOne(context.Background(), bson.M{"handoverID": handoverID}, bson.M{"$set": bson.M{
		"proofPhotoURL": url,
	}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "proofPhotoURL": url})
}

// DraftFromAsset builds a handover starting point from one concrete unit.
// Units sitting in repair resolve through the repair path back to their
// prior holder.
func (h *HandoverHandler) DraftFromAsset(c *gin.Context) {
	assetID := c.Param("id")

	var unit models.InventoryUnit
	err := h.DB.Collection("assets").FindOne(context.Background(), bson.M{"assetID": assetID}).Decode(&unit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve asset"})
		}
		return
	}

	resolver := &handover.Resolver{
		CurrentUser: c.GetString("user_name"),
	}
	state := resolver.Resolve(handover.SingleAssetSource{Unit: unit})
	if state == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No applicable handover strategy for this asset"})
		return
	}

	c.JSON(http.StatusOK, state)
}
