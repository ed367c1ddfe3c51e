// server/internal/api/handlers/dashboard_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/inventory"
	"fieldops-inventory-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DashboardHandler struct {
	DB               *mongo.Database
	Cache            cache.Cache
	DefaultThreshold int
	AlertCacheTTL    time.Duration
}

type UpdateThresholdsPayload struct {
	// Values maps "name|brand" to the low-stock cutoff for that model.
	Values map[string]int `json:"values" binding:"required"`
}

type RestockRequestPayload struct {
	Notes string `json:"notes"`
}

// GetStockAlerts classifies current inventory into critical/low buckets for
// the dashboard. The snapshot is cached briefly; any stock write drops it.
func (h *DashboardHandler) GetStockAlerts(c *gin.Context) {
	if h.Cache != nil {
		if data, err := h.Cache.Get(context.Background(), stockAlertsCacheKey); err == nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
	}

	buckets, err := h.computeBuckets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze stock"})
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(buckets); err == nil {
			h.Cache.Set(context.Background(), stockAlertsCacheKey, data, h.AlertCacheTTL)
		}
	}

	c.JSON(http.StatusOK, buckets)
}

// GetThresholds returns the per-model overrides.
func (h *DashboardHandler) GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": h.DefaultThreshold,
		"values":  fetchThresholds(h.DB),
	})
}

// UpdateThresholds replaces the per-model overrides.
func (h *DashboardHandler) UpdateThresholds(c *gin.Context) {
	var payload UpdateThresholdsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for key, value := range payload.Values {
		if value <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Threshold for %q must be positive", key)})
			return
		}
	}

	upsert := true
	_, err := h.DB.Collection("settings").UpdateOne(
		context.Background(),
		bson.M{"key": "stock_thresholds"},
		bson.M{"$set": bson.M{"values": payload.Values}},
		&options.UpdateOptions{Upsert: &upsert},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save thresholds"})
		return
	}

	dropStockAlertCache(h.Cache)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CreateRestockRequest pre-fills a procurement request from the current
// alert buckets so the admin only has to adjust quantities and submit.
func (h *DashboardHandler) CreateRestockRequest(c *gin.Context) {
	creatorUsername := c.GetString("user_username")
	creatorName := c.GetString("user_name")

	var payload RestockRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buckets, err := h.computeBuckets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze stock"})
		return
	}

	catalog, err := fetchCatalog(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query catalog"})
		return
	}
	unitFor := func(name, brand string) string {
		for _, entry := range catalog {
			if entry.Name == name && entry.Brand == brand && entry.UnitOfMeasure != "" {
				return entry.UnitOfMeasure
			}
		}
		return "Pcs"
	}

	lines := []models.RequestLine{}
	for _, level := range append(buckets.Critical, buckets.Low...) {
		qty := float64(level.Threshold - level.Count)
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, models.RequestLine{
			ItemName: level.Name,
			Brand:    level.Brand,
			Quantity: qty,
			Unit:     unitFor(level.Name, level.Brand),
			Status:   models.LineStatusPending,
		})
	}
	if len(lines) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "No models are below their thresholds"})
		return
	}

	newRequest := models.ProcurementRequest{
		RequestID:     fmt.Sprintf("REQ-%s", uuid.New().String()[:8]),
		RequesterName: creatorName,
		Lines:         lines,
		Status:        models.RequestStatusPending,
		Notes:         payload.Notes,
		CreatedBy:     creatorUsername,
		CreatedAt:     time.Now(),
	}

	result, err := h.DB.Collection("requests").InsertOne(context.Background(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restock request"})
		return
	}

	newRequest.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, newRequest)
}

func (h *DashboardHandler) computeBuckets() (inventory.AlertBuckets, error) {
	units, err := fetchInventoryUnits(h.DB, bson.M{})
	if err != nil {
		return inventory.AlertBuckets{}, err
	}
	return inventory.Analyze(units, fetchThresholds(h.DB), h.DefaultThreshold), nil
}
