// server/internal/api/handlers/asset_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/inventory"
	"fieldops-inventory-api-server/internal/models"
	"fieldops-inventory-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssetHandler struct {
	DB    *mongo.Database
	Hub   *socket.Hub
	Cache cache.Cache
}

type RegisterAssetRequest struct {
	Name           string   `json:"name" binding:"required"`
	Brand          string   `json:"brand"`
	SerialNumber   string   `json:"serialNumber"`
	TrackingMethod string   `json:"trackingMethod" binding:"required,oneof=individual bulk"`
	BulkType       string   `json:"bulkType" binding:"omitempty,oneof=count measurement"`
	Unit           string   `json:"unit"`
	BaseUnit       string   `json:"baseUnit"`
	InitialBalance *float64 `json:"initialBalance"`
	Location       string   `json:"location"`
	Condition      string   `json:"condition"`
	ProcurementRef string   `json:"procurementRef"`
}

type ConsumeAssetRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
}

type SplitAssetRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
}

type UpdateAssetStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	CurrentUser string `json:"currentUser"`
	Location    string `json:"location"`
	Condition   string `json:"condition"`
}

// RegisterAsset records a new inventory unit. Measurement units without an
// explicit initial balance take their container capacity from the catalog;
// count units are one piece each.
func (h *AssetHandler) RegisterAsset(c *gin.Context) {
	recordedBy := c.GetString("user_name")

	var req RegisterAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TrackingMethod == models.TrackingBulk && req.BulkType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bulk assets need a bulkType"})
		return
	}

	unit := models.InventoryUnit{
		AssetID:          fmt.Sprintf("AST-%s", uuid.New().String()[:8]),
		Name:             req.Name,
		Brand:            req.Brand,
		SerialNumber:     req.SerialNumber,
		TrackingMethod:   req.TrackingMethod,
		BulkType:         req.BulkType,
		Unit:             req.Unit,
		BaseUnit:         req.BaseUnit,
		InitialBalance:   req.InitialBalance,
		Status:           models.StatusInStorage,
		Location:         req.Location,
		Condition:        req.Condition,
		ProcurementRef:   req.ProcurementRef,
		RegistrationDate: time.Now(),
		RecordedBy:       recordedBy,
	}

	switch req.BulkType {
	case models.BulkTypeMeasurement:
		if unit.InitialBalance == nil {
			if entry := h.lookupCatalog(req.Name, req.Brand); entry != nil && entry.QuantityPerUnit > 0 {
				capacity := entry.QuantityPerUnit
				unit.InitialBalance = &capacity
				if unit.Unit == "" {
					unit.Unit = entry.UnitOfMeasure
				}
				if unit.BaseUnit == "" {
					unit.BaseUnit = entry.BaseUnitOfMeasure
				}
			}
		}
		if unit.InitialBalance == nil || *unit.InitialBalance <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Measurement assets need a positive initial balance"})
			return
		}
		balance := *unit.InitialBalance
		unit.CurrentBalance = &balance
	case models.BulkTypeCount:
		one := 1.0
		unit.InitialBalance = &one
		unit.CurrentBalance = &one
	}

	collection := h.DB.Collection("assets")
	result, err := collection.InsertOne(context.Background(), unit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register asset"})
		return
	}
	unit.ID = result.InsertedID.(primitive.ObjectID)

	dropStockAlertCache(h.Cache)
	c.JSON(http.StatusCreated, unit)
}

// GetAllAssets lists units, optionally filtered by status, name or brand.
func (h *AssetHandler) GetAllAssets(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if name := c.Query("name"); name != "" {
		filter["name"] = bson.M{"$regex": name, "$options": "i"}
	}
	if brand := c.Query("brand"); brand != "" {
		filter["brand"] = bson.M{"$regex": brand, "$options": "i"}
	}

	units, err := fetchInventoryUnits(h.DB, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query assets"})
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetAssetByID fetches one unit by its assetID.
func (h *AssetHandler) GetAssetByID(c *gin.Context) {
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
	c.JSON(http.StatusOK, unit)
}

// UpdateAssetStatus transitions a unit's status and holder. Custody moves do
// not touch the balance, only status, holder and location.
func (h *AssetHandler) UpdateAssetStatus(c *gin.Context) {
	assetID := c.Param("id")

	var req UpdateAssetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{
		"status":      req.Status,
		"currentUser": req.CurrentUser,
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.Condition != "" {
		update["condition"] = req.Condition
	}

	result, err := h.DB.Collection("assets").UpdateOne(context.Background(), bson.M{"assetID": assetID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update asset"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	dropStockAlertCache(h.Cache)
	c.JSON(http.StatusOK, gin.H{"status": "success", "assetID": assetID})
}

// ConsumeAsset draws a quantity out of a unit's remaining balance.
func (h *AssetHandler) ConsumeAsset(c *gin.Context) {
	assetID := c.Param("id")

	var req ConsumeAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("assets")
	var unit models.InventoryUnit
	if err := collection.FindOne(context.Background(), bson.M{"assetID": assetID}).Decode(&unit); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve asset"})
		}
		return
	}

	if err := inventory.Consume(&unit, req.Quantity); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	_, err := collection.UpdateOne(context.Background(), bson.M{"assetID": assetID}, bson.M{"$set": bson.M{
		"currentBalance": unit.CurrentBalance,
		"status":         unit.Status,
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update asset balance"})
		return
	}

	dropStockAlertCache(h.Cache)
	notifyIfCritical(h.DB, h.Hub, unit.Name, unit.Brand)
	c.JSON(http.StatusOK, unit)
}

// SplitAsset carves a fragment off a measurement container so a partial
// length can move separately from the drum it came from.
func (h *AssetHandler) SplitAsset(c *gin.Context) {
	assetID := c.Param("id")
	recordedBy := c.GetString("user_name")

	var req SplitAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("assets")
	var parent models.InventoryUnit
	if err := collection.FindOne(context.Background(), bson.M{"assetID": assetID}).Decode(&parent); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve asset"})
		}
		return
	}

	fragmentAssetID := fmt.Sprintf("AST-%s", uuid.New().String()[:8])
	fragment, err := inventory.SplitFragment(&parent, req.Quantity, fragmentAssetID, recordedBy)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	session, err := h.DB.Client().StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start database session"})
		return
	}
	defer session.EndSession(context.Background())

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := collection.UpdateOne(sessCtx, bson.M{"assetID": parent.AssetID}, bson.M{"$set": bson.M{
			"currentBalance": parent.CurrentBalance,
			"status":         parent.Status,
		}}); err != nil {
			return nil, err
		}
		result, err := collection.InsertOne(sessCtx, fragment)
		if err != nil {
			return nil, err
		}
		fragment.ID = result.InsertedID.(primitive.ObjectID)
		return fragment, nil
	}

	if _, err := session.WithTransaction(context.Background(), callback); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed", "details": err.Error()})
		return
	}

	dropStockAlertCache(h.Cache)
	c.JSON(http.StatusCreated, gin.H{"parent": parent, "fragment": fragment})
}

// allocationCandidate pairs a unit with whether it may actually be picked.
// Exhausted units stay listed so the requester sees them as empty.
type allocationCandidate struct {
	models.InventoryUnit
	Selectable bool `json:"selectable"`
}

// GetAllocation returns the ranked candidate units for a requested item plus
// the recommended pick. An empty list is a valid answer, with a hint to try
// the other source.
func (h *AssetHandler) GetAllocation(c *gin.Context) {
	query := inventory.AllocationQuery{
		ItemName:  c.Query("itemName"),
		Brand:     c.Query("brand"),
		Source:    inventory.SourceMode(c.DefaultQuery("source", string(inventory.SourceWarehouse))),
		OwnerName: c.Query("owner"),
		Search:    c.Query("search"),
	}
	if query.ItemName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemName is required"})
		return
	}
	if query.Source == inventory.SourcePersonal && strings.TrimSpace(query.OwnerName) == "" {
		query.OwnerName = c.GetString("user_name")
	}

	units, err := fetchInventoryUnits(h.DB, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query assets"})
		return
	}

	candidates := inventory.Candidates(units, query)
	response := make([]allocationCandidate, 0, len(candidates))
	for i := range candidates {
		response = append(response, allocationCandidate{
			InventoryUnit: candidates[i],
			Selectable:    inventory.Selectable(&candidates[i]),
		})
	}

	var recommended interface{}
	if pick := inventory.Recommend(candidates); pick != nil {
		recommended = pick
	}

	payload := gin.H{
		"candidates":  response,
		"recommended": recommended,
	}
	if len(response) == 0 {
		otherSource := inventory.SourcePersonal
		if query.Source == inventory.SourcePersonal {
			otherSource = inventory.SourceWarehouse
		}
		payload["hint"] = fmt.Sprintf("No stock found for this query. Try source=%s.", otherSource)
	}
	c.JSON(http.StatusOK, payload)
}

func (h *AssetHandler) lookupCatalog(name, brand string) *models.StandardItem {
	var entry models.StandardItem
	err := h.DB.Collection("standard_items").FindOne(context.Background(), bson.M{
		"name":  bson.M{"$regex": "^" + name + "$", "$options": "i"},
		"brand": bson.M{"$regex": "^" + brand + "$", "$options": "i"},
	}).Decode(&entry)
	if err != nil {
		return nil
	}
	return &entry
}
