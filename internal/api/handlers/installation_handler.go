// server/internal/api/handlers/installation_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/handover"
	"fieldops-inventory-api-server/internal/inventory"
	"fieldops-inventory-api-server/internal/models"
	"fieldops-inventory-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type InstallationHandler struct {
	DB    *mongo.Database
	Hub   *socket.Hub
	Cache cache.Cache
}

type CreateInstallationPayload struct {
	CustomerName    string                  `json:"customerName" binding:"required"`
	CustomerID      string                  `json:"customerID"`
	AssetsInstalled []models.InstalledAsset `json:"assetsInstalled" binding:"required,dive"`
	MaterialsUsed   []models.MaterialUsage  `json:"materialsUsed" binding:"dive"`
	Notes           string                  `json:"notes"`
}

// CreateInstallation records a customer install and applies its stock
// effects in one transaction: installed devices go in_use at the customer,
// and each known material unit has the used quantity consumed.
func (h *InstallationHandler) CreateInstallation(c *gin.Context) {
	creatorUsername := c.GetString("user_username")
	technicianName := c.GetString("user_name")

	var payload CreateInstallationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for i, mat := range payload.MaterialsUsed {
		if mat.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Material %d has a non-positive quantity", i+1)})
			return
		}
	}

	newInstallation := models.Installation{
		InstallationID:  fmt.Sprintf("INST-%s", uuid.New().String()[:8]),
		CustomerName:    payload.CustomerName,
		CustomerID:      payload.CustomerID,
		TechnicianName:  technicianName,
		AssetsInstalled: payload.AssetsInstalled,
		MaterialsUsed:   payload.MaterialsUsed,
		Notes:           payload.Notes,
		CreatedBy:       creatorUsername,
		CreatedAt:       time.Now(),
	}

	session, err := h.DB.Client().StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start database session"})
		return
	}
	defer session.EndSession(context.Background())

	assetCollection := h.DB.Collection("assets")
	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		for _, asset := range newInstallation.AssetsInstalled {
			result, err := assetCollection.UpdateOne(sessCtx, bson.M{"assetID": asset.AssetID}, bson.M{"$set": bson.M{
				"status":      models.StatusInUse,
				"currentUser": newInstallation.CustomerName,
				"location":    "Customer: " + newInstallation.CustomerName,
			}})
			if err != nil {
				return nil, err
			}
			if result.MatchedCount == 0 {
				return nil, fmt.Errorf("installed asset not found: %s", asset.AssetID)
			}
		}

		for _, mat := range newInstallation.MaterialsUsed {
			if mat.MaterialAssetID == "" {
				continue
			}
			var unit models.InventoryUnit
			if err := assetCollection.FindOne(sessCtx, bson.M{"assetID": mat.MaterialAssetID}).Decode(&unit); err != nil {
				return nil, fmt.Errorf("material unit not found: %s", mat.MaterialAssetID)
			}
			if err := inventory.Consume(&unit, mat.Quantity); err != nil {
				return nil, fmt.Errorf("material %s: %w", mat.MaterialAssetID, err)
			}
			if _, err := assetCollection.UpdateOne(sessCtx, bson.M{"assetID": mat.MaterialAssetID}, bson.M{"$set": bson.M{
				"currentBalance": unit.CurrentBalance,
				"status":         unit.Status,
			}}); err != nil {
				return nil, err
			}
		}

		result, err := h.DB.Collection("installations").InsertOne(sessCtx, newInstallation)
		if err != nil {
			return nil, err
		}
		newInstallation.ID = result.InsertedID.(primitive.ObjectID)
		return newInstallation, nil
	}

	if _, err := session.WithTransaction(context.Background(), callback); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to record installation", "details": err.Error()})
		return
	}

	dropStockAlertCache(h.Cache)
	for _, mat := range newInstallation.MaterialsUsed {
		notifyIfCritical(h.DB, h.Hub, mat.ItemName, mat.Brand)
	}

	c.JSON(http.StatusCreated, newInstallation)
}

// GetAllInstallations lists installation records.
func (h *InstallationHandler) GetAllInstallations(c *gin.Context) {
	filter := bson.M{}
	if customer := c.Query("customer"); customer != "" {
		filter["customerName"] = bson.M{"$regex": customer, "$options": "i"}
	}

	cursor, err := h.DB.Collection("installations").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query installations"})
		return
	}
	defer cursor.Close(context.Background())

	var installations []models.Installation
	if err = cursor.All(context.Background(), &installations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode installations"})
		return
	}

	if installations == nil {
		installations = []models.Installation{}
	}
	c.JSON(http.StatusOK, installations)
}

// GetInstallationByID fetches one installation record.
func (h *InstallationHandler) GetInstallationByID(c *gin.Context) {
	installationID := c.Param("id")

	var installation models.Installation
	err := h.DB.Collection("installations").FindOne(context.Background(), bson.M{"installationID": installationID}).Decode(&installation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve installation"})
		}
		return
	}
	c.JSON(http.StatusOK, installation)
}

// GetHandoverDraft resolves the installation into the handover the technician
// signs before carrying the items out.
func (h *InstallationHandler) GetHandoverDraft(c *gin.Context) {
	installationID := c.Param("id")

	var installation models.Installation
	err := h.DB.Collection("installations").FindOne(context.Background(), bson.M{"installationID": installationID}).Decode(&installation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve installation"})
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
	state := resolver.Resolve(handover.InstallationSource{Installation: installation})
	if state == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No applicable handover strategy for this installation"})
		return
	}

	c.JSON(http.StatusOK, state)
}
