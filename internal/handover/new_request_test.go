package handover

import (
	"reflect"
	"testing"
	"time"

	"fieldops-inventory-api-server/internal/models"
)

func fptr(v float64) *float64 {
	return &v
}

func registered(d int) time.Time {
	return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
}

func procuredDrum(assetID string, d int, meters float64) models.InventoryUnit {
	return models.InventoryUnit{
		AssetID:          assetID,
		Name:             "ADSS 24 Core",
		Brand:            "Voksel",
		TrackingMethod:   models.TrackingBulk,
		BulkType:         models.BulkTypeMeasurement,
		Unit:             "Drum",
		BaseUnit:         "Meter",
		InitialBalance:   fptr(meters),
		CurrentBalance:   fptr(meters),
		Status:           models.StatusInStorage,
		ProcurementRef:   "PO-2026-014",
		RegistrationDate: registered(d),
	}
}

func procuredConnector(assetID string, d int) models.InventoryUnit {
	return models.InventoryUnit{
		AssetID:          assetID,
		Name:             "Fast Connector SC/UPC",
		Brand:            "Generic",
		TrackingMethod:   models.TrackingBulk,
		BulkType:         models.BulkTypeCount,
		InitialBalance:   fptr(1),
		CurrentBalance:   fptr(1),
		Status:           models.StatusInStorage,
		ProcurementRef:   "PO-2026-014",
		RegistrationDate: registered(d),
	}
}

func drumRequest(lines ...models.RequestLine) models.ProcurementRequest {
	return models.ProcurementRequest{
		RequestID:     "REQ-abc123",
		PONumber:      "PO-2026-014",
		RequesterName: "Budi",
		Lines:         lines,
		Status:        models.RequestStatusApproved,
	}
}

func TestResolveNewRequestMeasurementTakesEveryContainer(t *testing.T) {
	// Two drums were procured for an approved quantity of two drums; both
	// become locked one-container lines and nothing is left short.
	resolver := &Resolver{
		Units: []models.InventoryUnit{
			procuredDrum("AST-drum02", 2, 2000),
			procuredDrum("AST-drum01", 1, 2000),
		},
	}
	req := drumRequest(models.RequestLine{
		ItemName:         "ADSS 24 Core",
		Brand:            "Voksel",
		Quantity:         2,
		Unit:             "Drum",
		Status:           models.LineStatusApproved,
		ApprovedQuantity: fptr(2),
	})

	state := resolver.Resolve(NewRequestSource{Request: req})
	if state == nil {
		t.Fatal("Resolve() returned nil")
	}
	if len(state.Items) != 2 {
		t.Fatalf("got %d lines, want 2 locked container lines", len(state.Items))
	}
	// FIFO: the older drum comes first.
	if state.Items[0].AssetID != "AST-drum01" || state.Items[1].AssetID != "AST-drum02" {
		t.Errorf("lines out of FIFO order: %s, %s", state.Items[0].AssetID, state.Items[1].AssetID)
	}
	for i, item := range state.Items {
		if !item.IsLocked {
			t.Errorf("line %d must be locked", i)
		}
		if item.Quantity != 1 || item.Unit != "Drum" {
			t.Errorf("line %d = %v %s, want 1 Drum", i, item.Quantity, item.Unit)
		}
	}
	if state.Reference != "PO-2026-014" {
		t.Errorf("reference = %q, want the PO number", state.Reference)
	}
	if state.Recipient != "Budi" {
		t.Errorf("recipient = %q, want the requester", state.Recipient)
	}
	if state.TargetAssetStatus != models.StatusInUse {
		t.Errorf("target status = %q, want %q", state.TargetAssetStatus, models.StatusInUse)
	}
}

func TestResolveNewRequestCountShortfall(t *testing.T) {
	// Five connectors approved, only two procured: two locked lines plus
	// three unlocked placeholders, one piece each.
	resolver := &Resolver{
		Units: []models.InventoryUnit{
			procuredConnector("AST-fc01", 1),
			procuredConnector("AST-fc02", 1),
		},
	}
	req := drumRequest(models.RequestLine{
		ItemName:         "Fast Connector SC/UPC",
		Brand:            "Generic",
		Quantity:         5,
		Unit:             "Pcs",
		Status:           models.LineStatusApproved,
		ApprovedQuantity: fptr(5),
	})

	state := resolver.Resolve(NewRequestSource{Request: req})
	if len(state.Items) != 5 {
		t.Fatalf("got %d lines, want 5", len(state.Items))
	}

	locked, unlocked := 0, 0
	var total float64
	for _, item := range state.Items {
		total += item.Quantity
		if item.IsLocked {
			locked++
			if item.AssetID == "" {
				t.Error("locked line must carry an assetID")
			}
		} else {
			unlocked++
			if item.AssetID != "" {
				t.Error("shortfall line must not carry an assetID")
			}
		}
	}
	if locked != 2 || unlocked != 3 {
		t.Errorf("locked/unlocked = %d/%d, want 2/3", locked, unlocked)
	}
	// Conservation: lines always add up to the approved quantity.
	if total != 5 {
		t.Errorf("total quantity = %v, want 5", total)
	}
}

func TestResolveNewRequestMeasurementShortfall(t *testing.T) {
	// Nothing procured yet: a single unlocked placeholder in the requested
	// unit carries the whole remaining quantity.
	resolver := &Resolver{}
	req := drumRequest(models.RequestLine{
		ItemName: "ADSS 24 Core",
		Brand:    "Voksel",
		Quantity: 2,
		Unit:     "Drum",
		Status:   models.LineStatusApproved,
	})
	resolver.Catalog = []models.StandardItem{
		{Name: "ADSS 24 Core", Brand: "Voksel", BulkType: models.BulkTypeMeasurement},
	}

	state := resolver.Resolve(NewRequestSource{Request: req})
	if len(state.Items) != 1 {
		t.Fatalf("got %d lines, want 1 placeholder", len(state.Items))
	}
	item := state.Items[0]
	if item.IsLocked || item.AssetID != "" {
		t.Error("placeholder must be unlocked and unresolved")
	}
	if item.Quantity != 2 || item.Unit != "Drum" {
		t.Errorf("placeholder = %v %s, want 2 Drum", item.Quantity, item.Unit)
	}
}

func TestResolveNewRequestUnitNeverFulfillsTwoLines(t *testing.T) {
	// Two lines for the same model share one procured unit; only the first
	// line may claim it.
	resolver := &Resolver{
		Units: []models.InventoryUnit{procuredConnector("AST-fc01", 1)},
	}
	req := drumRequest(
		models.RequestLine{ItemName: "Fast Connector SC/UPC", Quantity: 1, Unit: "Pcs", Status: models.LineStatusApproved},
		models.RequestLine{ItemName: "Fast Connector SC/UPC", Quantity: 1, Unit: "Pcs", Status: models.LineStatusApproved},
	)

	state := resolver.Resolve(NewRequestSource{Request: req})
	if len(state.Items) != 2 {
		t.Fatalf("got %d lines, want 2", len(state.Items))
	}
	if state.Items[0].AssetID != "AST-fc01" || !state.Items[0].IsLocked {
		t.Error("first line must claim the procured unit")
	}
	if state.Items[1].AssetID != "" || state.Items[1].IsLocked {
		t.Error("second line must fall through to a shortfall placeholder")
	}
}

func TestResolveNewRequestSkipsRejectedLines(t *testing.T) {
	resolver := &Resolver{
		Units: []models.InventoryUnit{procuredConnector("AST-fc01", 1)},
	}
	req := drumRequest(
		models.RequestLine{ItemName: "Fast Connector SC/UPC", Quantity: 3, Unit: "Pcs", Status: models.LineStatusRejected},
	)

	state := resolver.Resolve(NewRequestSource{Request: req})
	if len(state.Items) != 0 {
		t.Fatalf("rejected lines must produce no handover lines, got %v", state.Items)
	}
}

func TestResolveNewRequestApprovedQuantityOverridesRequested(t *testing.T) {
	resolver := &Resolver{}
	req := drumRequest(models.RequestLine{
		ItemName:         "Fast Connector SC/UPC",
		Quantity:         10,
		Unit:             "Pcs",
		Status:           models.LineStatusApproved,
		ApprovedQuantity: fptr(4),
	})

	state := resolver.Resolve(NewRequestSource{Request: req})
	if len(state.Items) != 4 {
		t.Fatalf("got %d placeholders, want the approved 4, not the requested 10", len(state.Items))
	}
}

func TestResolveNewRequestIgnoresUnitsOutsideTheRequest(t *testing.T) {
	stranger := procuredConnector("AST-other", 1)
	stranger.ProcurementRef = "PO-9999-001"
	unrefd := procuredConnector("AST-unref", 1)
	unrefd.ProcurementRef = ""
	taken := procuredConnector("AST-taken", 1)
	taken.Status = models.StatusInUse

	resolver := &Resolver{Units: []models.InventoryUnit{stranger, unrefd, taken}}
	req := drumRequest(models.RequestLine{
		ItemName: "Fast Connector SC/UPC", Quantity: 1, Unit: "Pcs", Status: models.LineStatusApproved,
	})

	state := resolver.Resolve(NewRequestSource{Request: req})
	if len(state.Items) != 1 || state.Items[0].AssetID != "" {
		t.Fatalf("no listed unit belongs to this request, got %v", state.Items)
	}
}

func TestResolveNewRequestFallsBackToRequestID(t *testing.T) {
	unit := procuredConnector("AST-fc01", 1)
	unit.ProcurementRef = "REQ-abc123"

	resolver := &Resolver{Units: []models.InventoryUnit{unit}}
	req := drumRequest(models.RequestLine{
		ItemName: "Fast Connector SC/UPC", Quantity: 1, Unit: "Pcs", Status: models.LineStatusApproved,
	})
	req.PONumber = ""

	state := resolver.Resolve(NewRequestSource{Request: req})
	if state.Reference != "REQ-abc123" {
		t.Errorf("reference = %q, want the request ID when no PO exists", state.Reference)
	}
	if len(state.Items) != 1 || state.Items[0].AssetID != "AST-fc01" {
		t.Errorf("unit tagged with the request ID must match, got %v", state.Items)
	}
}

func TestResolveNewRequestIsIdempotent(t *testing.T) {
	resolver := &Resolver{
		Units: []models.InventoryUnit{
			procuredDrum("AST-drum01", 1, 2000),
			procuredConnector("AST-fc01", 2),
		},
	}
	req := drumRequest(
		models.RequestLine{ItemName: "ADSS 24 Core", Brand: "Voksel", Quantity: 1, Unit: "Drum", Status: models.LineStatusApproved},
		models.RequestLine{ItemName: "Fast Connector SC/UPC", Quantity: 3, Unit: "Pcs", Status: models.LineStatusApproved},
	)

	first := resolver.Resolve(NewRequestSource{Request: req})
	second := resolver.Resolve(NewRequestSource{Request: req})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolving twice against the same snapshot diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
