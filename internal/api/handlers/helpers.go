// server/internal/api/handlers/helpers.go
package handlers

import (
	"context"
	"encoding/json"
	"log"

	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/models"
	"fieldops-inventory-api-server/internal/socket"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// stockAlertsCacheKey is the redis key for the dashboard alert snapshot.
// Every write that can change availability drops it.
const stockAlertsCacheKey = "dashboard:stock-alerts"

func fetchInventoryUnits(db *mongo.Database, filter bson.M) ([]models.InventoryUnit, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := db.Collection("assets").Find(context.Background(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.Background())

	var units []models.InventoryUnit
	if err = cursor.All(context.Background(), &units); err != nil {
		return nil, err
	}
	if units == nil {
		units = []models.InventoryUnit{}
	}
	return units, nil
}

func fetchCatalog(db *mongo.Database) ([]models.StandardItem, error) {
	cursor, err := db.Collection("standard_items").Find(context.Background(), bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.Background())

	var items []models.StandardItem
	if err = cursor.All(context.Background(), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.StandardItem{}
	}
	return items, nil
}

// thresholdSettings is the settings document holding per-model overrides,
// keyed "name|brand".
type thresholdSettings struct {
	Key    string         `bson:"key"`
	Values map[string]int `bson:"values"`
}

func fetchThresholds(db *mongo.Database) map[string]int {
	var settings thresholdSettings
	err := db.Collection("settings").FindOne(context.Background(), bson.M{"key": "stock_thresholds"}).Decode(&settings)
	if err != nil {
		// Missing settings just mean every model uses the default.
		return map[string]int{}
	}
	if settings.Values == nil {
		return map[string]int{}
	}
	return settings.Values
}

func dropStockAlertCache(c cache.Cache) {
	if c == nil {
		return
	}
	c.Delete(context.Background(), stockAlertsCacheKey)
}

// notifyIfCritical broadcasts a stock_critical event when a model has no
// units left in storage. Called after writes that move stock out.
func notifyIfCritical(db *mongo.Database, hub *socket.Hub, name, brand string) {
	if hub == nil {
		return
	}
	count, err := db.Collection("assets").CountDocuments(context.Background(), bson.M{
		"name":       name,
		"brand":      brand,
		"status":     models.StatusInStorage,
		"isFragment": bson.M{"$ne": true},
	})
	if err != nil {
		log.Printf("Failed to check stock level for %s/%s: %v", name, brand, err)
		return
	}
	if count > 0 {
		return
	}

	notification := map[string]string{
		"event": "stock_critical",
		"name":  name,
		"brand": brand,
	}
	notificationJSON, _ := json.Marshal(notification)
	hub.Broadcast(notificationJSON)
}
