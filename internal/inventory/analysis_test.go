package inventory

import (
	"testing"

	"fieldops-inventory-api-server/internal/models"
)

func stockUnit(name, brand, status string) models.InventoryUnit {
	return models.InventoryUnit{Name: name, Brand: brand, Status: status}
}

func TestAnalyzeBuckets(t *testing.T) {
	units := []models.InventoryUnit{}
	// Healthy: 6 routers in storage.
	for i := 0; i < 6; i++ {
		units = append(units, stockUnit("Router AX3000", "TP-Link", models.StatusInStorage))
	}
	// Low: 2 drums in storage.
	units = append(units,
		stockUnit("ADSS 24 Core", "Voksel", models.StatusInStorage),
		stockUnit("ADSS 24 Core", "Voksel", models.StatusInStorage),
	)
	// Critical: every ONT is out with technicians.
	units = append(units,
		stockUnit("ONT HG8245", "Huawei", models.StatusInUse),
		stockUnit("ONT HG8245", "Huawei", models.StatusInCustody),
	)

	buckets := Analyze(units, nil, 5)

	if len(buckets.Critical) != 1 || buckets.Critical[0].Name != "ONT HG8245" {
		t.Fatalf("Critical = %v, want only ONT HG8245", buckets.Critical)
	}
	if buckets.Critical[0].Count != 0 {
		t.Errorf("critical count = %d, want 0", buckets.Critical[0].Count)
	}
	if len(buckets.Low) != 1 || buckets.Low[0].Name != "ADSS 24 Core" {
		t.Fatalf("Low = %v, want only ADSS 24 Core", buckets.Low)
	}
	if buckets.Low[0].Count != 2 {
		t.Errorf("low count = %d, want 2", buckets.Low[0].Count)
	}
}

func TestAnalyzeThresholdBoundary(t *testing.T) {
	// Exactly at the threshold is still low; one above is healthy.
	units := []models.InventoryUnit{}
	for i := 0; i < 5; i++ {
		units = append(units, stockUnit("Fast Connector SC/UPC", "Generic", models.StatusInStorage))
	}

	buckets := Analyze(units, nil, 5)
	if len(buckets.Low) != 1 {
		t.Fatalf("count equal to threshold must be low, got %v", buckets)
	}

	units = append(units, stockUnit("Fast Connector SC/UPC", "Generic", models.StatusInStorage))
	buckets = Analyze(units, nil, 5)
	if len(buckets.Low) != 0 || len(buckets.Critical) != 0 {
		t.Fatalf("count above threshold must raise no alert, got %v", buckets)
	}
}

func TestAnalyzeThresholdOverrides(t *testing.T) {
	units := []models.InventoryUnit{}
	for i := 0; i < 8; i++ {
		units = append(units, stockUnit("Dropcore 1 Core", "Fiberhome", models.StatusInStorage))
	}

	thresholds := map[string]int{
		ThresholdKey("Dropcore 1 Core", "Fiberhome"): 10,
	}
	buckets := Analyze(units, thresholds, 5)
	if len(buckets.Low) != 1 || buckets.Low[0].Threshold != 10 {
		t.Fatalf("override threshold not applied, got %v", buckets)
	}

	// A non-positive override falls back to the default.
	thresholds[ThresholdKey("Dropcore 1 Core", "Fiberhome")] = 0
	buckets = Analyze(units, thresholds, 5)
	if len(buckets.Low) != 0 {
		t.Fatalf("zero override must fall back to default, got %v", buckets)
	}
}

func TestAnalyzeExcludesFragments(t *testing.T) {
	fragment := stockUnit("ADSS 24 Core", "Voksel", models.StatusInStorage)
	fragment.IsFragment = true

	buckets := Analyze([]models.InventoryUnit{fragment}, nil, 5)
	if len(buckets.Critical) != 0 || len(buckets.Low) != 0 {
		t.Fatalf("fragments alone must produce no alert, got %v", buckets)
	}

	// A model whose only whole container was fully split is critical: the
	// fragment does not count as container stock.
	units := []models.InventoryUnit{
		stockUnit("ADSS 24 Core", "Voksel", models.StatusConsumed),
		fragment,
	}
	buckets = Analyze(units, nil, 5)
	if len(buckets.Critical) != 1 {
		t.Fatalf("split-away model must be critical, got %v", buckets)
	}
}

func TestAnalyzeDefaultThresholdFallback(t *testing.T) {
	units := []models.InventoryUnit{
		stockUnit("Patch Cord", "Generic", models.StatusInStorage),
	}

	buckets := Analyze(units, nil, 0)
	if len(buckets.Low) != 1 || buckets.Low[0].Threshold != DefaultThreshold {
		t.Fatalf("non-positive default must fall back to %d, got %v", DefaultThreshold, buckets)
	}
}

func TestAnalyzeOutputIsSorted(t *testing.T) {
	units := []models.InventoryUnit{
		stockUnit("Zebra Cable", "Acme", models.StatusInUse),
		stockUnit("Alpha Cable", "Acme", models.StatusInUse),
		stockUnit("Alpha Cable", "Beta", models.StatusInUse),
	}

	buckets := Analyze(units, nil, 5)
	if len(buckets.Critical) != 3 {
		t.Fatalf("Critical = %v, want 3 models", buckets.Critical)
	}
	want := []StockLevel{
		{Name: "Alpha Cable", Brand: "Acme", Count: 0, Threshold: 5},
		{Name: "Alpha Cable", Brand: "Beta", Count: 0, Threshold: 5},
		{Name: "Zebra Cable", Brand: "Acme", Count: 0, Threshold: 5},
	}
	for i := range want {
		if buckets.Critical[i] != want[i] {
			t.Errorf("Critical[%d] = %v, want %v", i, buckets.Critical[i], want[i])
		}
	}
}
