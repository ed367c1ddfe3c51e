// server/internal/inventory/analysis.go
package inventory

import (
	"sort"

	"fieldops-inventory-api-server/internal/models"
)

// DefaultThreshold is the low-stock cutoff used when no per-model override
// is configured.
const DefaultThreshold = 5

// StockLevel is one (name, brand) model's available warehouse count together
// with the threshold it was judged against.
type StockLevel struct {
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
}

// AlertBuckets partitions models needing attention: Critical holds models
// with zero units in storage, Low holds models at or under their threshold.
// A model never appears in both.
type AlertBuckets struct {
	Critical []StockLevel `json:"critical"`
	Low      []StockLevel `json:"low"`
}

// ThresholdKey builds the lookup key for per-model threshold overrides.
func ThresholdKey(name, brand string) string {
	return name + "|" + brand
}

type modelKey struct {
	name  string
	brand string
}

// Analyze classifies current inventory into dashboard alert buckets.
// Fragment units are excluded up front so remnants of a split container do
// not double-count toward container-level stock. Grouping covers every
// remaining unit, but only units in storage count as available stock, so a
// model whose units are all out with technicians is critical.
func Analyze(units []models.InventoryUnit, thresholds map[string]int, defaultThreshold int) AlertBuckets {
	if defaultThreshold <= 0 {
		defaultThreshold = DefaultThreshold
	}

	counts := make(map[modelKey]int)
	for i := range units {
		u := &units[i]
		if u.IsFragment {
			continue
		}
		key := modelKey{name: u.Name, brand: u.Brand}
		if _, ok := counts[key]; !ok {
			counts[key] = 0
		}
		if u.Status == models.StatusInStorage {
			counts[key]++
		}
	}

	buckets := AlertBuckets{
		Critical: []StockLevel{},
		Low:      []StockLevel{},
	}
	for key, count := range counts {
		threshold := defaultThreshold
		if override, ok := thresholds[ThresholdKey(key.name, key.brand)]; ok && override > 0 {
			threshold = override
		}

		level := StockLevel{Name: key.name, Brand: key.brand, Count: count, Threshold: threshold}
		switch {
		case count == 0:
			buckets.Critical = append(buckets.Critical, level)
		case count <= threshold:
			buckets.Low = append(buckets.Low, level)
		}
	}

	sortLevels(buckets.Critical)
	sortLevels(buckets.Low)
	return buckets
}

func sortLevels(levels []StockLevel) {
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Name != levels[j].Name {
			return levels[i].Name < levels[j].Name
		}
		return levels[i].Brand < levels[j].Brand
	})
}
