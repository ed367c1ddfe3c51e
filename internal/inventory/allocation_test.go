package inventory

import (
	"testing"
	"time"

	"fieldops-inventory-api-server/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func warehouseUnit(assetID, name, brand string, registered time.Time, balance float64) models.InventoryUnit {
	return models.InventoryUnit{
		AssetID:          assetID,
		Name:             name,
		Brand:            brand,
		TrackingMethod:   models.TrackingBulk,
		BulkType:         models.BulkTypeMeasurement,
		Status:           models.StatusInStorage,
		InitialBalance:   fptr(balance),
		CurrentBalance:   fptr(balance),
		RegistrationDate: registered,
	}
}

func TestCandidatesFIFOOrdering(t *testing.T) {
	units := []models.InventoryUnit{
		warehouseUnit("AST-c", "Dropcore 1 Core", "Fiberhome", day(3), 800),
		warehouseUnit("AST-a", "Dropcore 1 Core", "Fiberhome", day(1), 1000),
		warehouseUnit("AST-b", "Dropcore 1 Core", "Fiberhome", day(2), 400),
	}

	got := Candidates(units, AllocationQuery{ItemName: "Dropcore 1 Core", Source: SourceWarehouse})
	if len(got) != 3 {
		t.Fatalf("Candidates() returned %d units, want 3", len(got))
	}
	for i, want := range []string{"AST-a", "AST-b", "AST-c"} {
		if got[i].AssetID != want {
			t.Errorf("position %d = %s, want %s (oldest first)", i, got[i].AssetID, want)
		}
	}
}

func TestCandidatesExhaustedUnitsSinkButStayListed(t *testing.T) {
	units := []models.InventoryUnit{
		warehouseUnit("AST-old-empty", "ADSS 24 Core", "Voksel", day(1), 0),
		warehouseUnit("AST-new-full", "ADSS 24 Core", "Voksel", day(5), 2000),
	}

	got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Source: SourceWarehouse})
	if len(got) != 2 {
		t.Fatalf("exhausted units must stay listed, got %d units", len(got))
	}
	if got[0].AssetID != "AST-new-full" {
		t.Errorf("positive balance must rank above exhausted, got %s first", got[0].AssetID)
	}

	rec := Recommend(got)
	if rec == nil || rec.AssetID != "AST-new-full" {
		t.Errorf("Recommend() = %v, want AST-new-full", rec)
	}
}

func TestCandidatesAssetIDTieBreak(t *testing.T) {
	units := []models.InventoryUnit{
		warehouseUnit("AST-zz", "Fast Connector SC/UPC", "Generic", day(1), 1),
		warehouseUnit("AST-aa", "Fast Connector SC/UPC", "Generic", day(1), 1),
	}

	got := Candidates(units, AllocationQuery{ItemName: "Fast Connector SC/UPC", Source: SourceWarehouse})
	if got[0].AssetID != "AST-aa" {
		t.Errorf("same-day units must break ties on assetID, got %s first", got[0].AssetID)
	}
}

func TestRecommendAllExhausted(t *testing.T) {
	units := []models.InventoryUnit{
		warehouseUnit("AST-e1", "ADSS 24 Core", "Voksel", day(1), 0),
		warehouseUnit("AST-e2", "ADSS 24 Core", "Voksel", day(2), 0),
	}

	got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Source: SourceWarehouse})
	if rec := Recommend(got); rec != nil {
		t.Errorf("Recommend() = %v, want nil when every candidate is exhausted", rec)
	}
	if rec := Recommend(nil); rec != nil {
		t.Errorf("Recommend(nil) = %v, want nil", rec)
	}
}

func TestCandidatesNameMatchingIsBidirectional(t *testing.T) {
	units := []models.InventoryUnit{
		warehouseUnit("AST-long", "ADSS 24 Core 2KM", "Voksel", day(1), 2000),
	}

	// Query shorter than the stored name.
	if got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Source: SourceWarehouse}); len(got) != 1 {
		t.Error("candidate containing the query must match")
	}
	// Query longer than the stored name.
	if got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core 2KM Span", Source: SourceWarehouse}); len(got) != 1 {
		t.Error("query containing the candidate must match")
	}
	if got := Candidates(units, AllocationQuery{ItemName: "Dropcore", Source: SourceWarehouse}); len(got) != 0 {
		t.Error("unrelated name must not match")
	}
	if got := Candidates(units, AllocationQuery{Source: SourceWarehouse}); len(got) != 0 {
		t.Error("empty query name must not match anything")
	}
}

func TestCandidatesBrandFilterIsOneWay(t *testing.T) {
	units := []models.InventoryUnit{
		warehouseUnit("AST-v", "ADSS 24 Core", "Voksel Premium", day(1), 2000),
	}

	if got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Brand: "Voksel", Source: SourceWarehouse}); len(got) != 1 {
		t.Error("target brand inside candidate brand must match")
	}
	if got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Brand: "Voksel Premium Plus", Source: SourceWarehouse}); len(got) != 0 {
		t.Error("candidate brand inside target brand must not match")
	}
	if got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Source: SourceWarehouse}); len(got) != 1 {
		t.Error("empty brand must match any brand")
	}
}

func TestCandidatesPersonalSource(t *testing.T) {
	units := []models.InventoryUnit{
		{
			AssetID: "AST-mine", Name: "Dropcore 1 Core", Brand: "Fiberhome",
			Status: models.StatusInCustody, CurrentUser: "Budi",
			CurrentBalance: fptr(600), RegistrationDate: day(1),
		},
		{
			AssetID: "AST-mine-inuse", Name: "Dropcore 1 Core", Brand: "Fiberhome",
			Status: models.StatusInUse, CurrentUser: "budi",
			CurrentBalance: fptr(300), RegistrationDate: day(2),
		},
		{
			AssetID: "AST-theirs", Name: "Dropcore 1 Core", Brand: "Fiberhome",
			Status: models.StatusInCustody, CurrentUser: "Sari",
			CurrentBalance: fptr(900), RegistrationDate: day(1),
		},
		{
			AssetID: "AST-warehouse", Name: "Dropcore 1 Core", Brand: "Fiberhome",
			Status: models.StatusInStorage,
			CurrentBalance: fptr(1000), RegistrationDate: day(1),
		},
	}

	got := Candidates(units, AllocationQuery{
		ItemName:  "Dropcore 1 Core",
		Source:    SourcePersonal,
		OwnerName: "Budi",
	})
	if len(got) != 2 {
		t.Fatalf("personal source returned %d units, want 2", len(got))
	}
	for _, u := range got {
		if u.AssetID == "AST-theirs" || u.AssetID == "AST-warehouse" {
			t.Errorf("personal source must not include %s", u.AssetID)
		}
	}
}

func TestCandidatesSearchFilter(t *testing.T) {
	units := []models.InventoryUnit{
		warehouseUnit("AST-0001", "ADSS 24 Core", "Voksel", day(1), 2000),
		warehouseUnit("AST-0002", "ADSS 24 Core", "Voksel", day(2), 2000),
	}
	units[1].Location = "Rack 7"

	got := Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Source: SourceWarehouse, Search: "rack 7"})
	if len(got) != 1 || got[0].AssetID != "AST-0002" {
		t.Fatalf("search over location failed, got %v", got)
	}

	got = Candidates(units, AllocationQuery{ItemName: "ADSS 24 Core", Source: SourceWarehouse, Search: "ast-0001"})
	if len(got) != 1 || got[0].AssetID != "AST-0001" {
		t.Fatalf("search over assetID failed, got %v", got)
	}
}
