package inventory

import (
	"errors"
	"testing"

	"fieldops-inventory-api-server/internal/models"
)

func fptr(v float64) *float64 {
	return &v
}

func TestEffectiveBalancePrecedence(t *testing.T) {
	cases := []struct {
		name string
		unit *models.InventoryUnit
		want float64
	}{
		{"nil unit", nil, 0},
		{"no balances", &models.InventoryUnit{}, 0},
		{"initial only", &models.InventoryUnit{InitialBalance: fptr(2000)}, 2000},
		{"current overrides initial", &models.InventoryUnit{InitialBalance: fptr(2000), CurrentBalance: fptr(350)}, 350},
		{"explicit zero current wins over initial", &models.InventoryUnit{InitialBalance: fptr(2000), CurrentBalance: fptr(0)}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveBalance(tc.unit); got != tc.want {
				t.Errorf("EffectiveBalance() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConsume(t *testing.T) {
	t.Run("rejects non-positive quantity", func(t *testing.T) {
		unit := &models.InventoryUnit{CurrentBalance: fptr(100)}
		if err := Consume(unit, 0); !errors.Is(err, ErrNonPositiveQuantity) {
			t.Errorf("Consume(0) error = %v, want ErrNonPositiveQuantity", err)
		}
		if err := Consume(unit, -5); !errors.Is(err, ErrNonPositiveQuantity) {
			t.Errorf("Consume(-5) error = %v, want ErrNonPositiveQuantity", err)
		}
	})

	t.Run("rejects overdraw", func(t *testing.T) {
		unit := &models.InventoryUnit{CurrentBalance: fptr(50)}
		if err := Consume(unit, 50.5); !errors.Is(err, ErrInsufficientBalance) {
			t.Errorf("Consume() error = %v, want ErrInsufficientBalance", err)
		}
		if *unit.CurrentBalance != 50 {
			t.Errorf("failed consume must not change balance, got %v", *unit.CurrentBalance)
		}
	})

	t.Run("partial draw keeps unit alive", func(t *testing.T) {
		unit := &models.InventoryUnit{Status: models.StatusInStorage, CurrentBalance: fptr(2000)}
		if err := Consume(unit, 350); err != nil {
			t.Fatalf("Consume() error = %v", err)
		}
		if *unit.CurrentBalance != 1650 {
			t.Errorf("balance = %v, want 1650", *unit.CurrentBalance)
		}
		if unit.Status != models.StatusInStorage {
			t.Errorf("status = %q, want unchanged", unit.Status)
		}
	})

	t.Run("residue within epsilon marks unit consumed", func(t *testing.T) {
		unit := &models.InventoryUnit{Status: models.StatusInCustody, CurrentBalance: fptr(100.00005)}
		if err := Consume(unit, 100); err != nil {
			t.Fatalf("Consume() error = %v", err)
		}
		if *unit.CurrentBalance != 0 {
			t.Errorf("balance = %v, want 0", *unit.CurrentBalance)
		}
		if unit.Status != models.StatusConsumed {
			t.Errorf("status = %q, want %q", unit.Status, models.StatusConsumed)
		}
	})

	t.Run("draw slightly above balance within epsilon succeeds", func(t *testing.T) {
		unit := &models.InventoryUnit{Status: models.StatusInStorage, CurrentBalance: fptr(99.99995)}
		if err := Consume(unit, 100); err != nil {
			t.Fatalf("Consume() error = %v", err)
		}
		if unit.Status != models.StatusConsumed {
			t.Errorf("status = %q, want %q", unit.Status, models.StatusConsumed)
		}
	})
}

func TestSplitFragment(t *testing.T) {
	parent := models.InventoryUnit{
		AssetID:        "AST-drum01",
		Name:           "ADSS 24 Core",
		Brand:          "Voksel",
		TrackingMethod: models.TrackingBulk,
		BulkType:       models.BulkTypeMeasurement,
		Unit:           "Drum",
		BaseUnit:       "Meter",
		InitialBalance: fptr(2000),
		CurrentBalance: fptr(2000),
		Status:         models.StatusInStorage,
		Location:       "Rack 3",
		ProcurementRef: "PO-2026-001",
	}

	t.Run("carves a fragment and reduces the parent", func(t *testing.T) {
		p := parent
		fragment, err := SplitFragment(&p, 350, "AST-frag01", "warehouse1")
		if err != nil {
			t.Fatalf("SplitFragment() error = %v", err)
		}
		if *p.CurrentBalance != 1650 {
			t.Errorf("parent balance = %v, want 1650", *p.CurrentBalance)
		}
		if !fragment.IsFragment {
			t.Error("fragment must be flagged IsFragment")
		}
		if fragment.Unit != "Meter" || fragment.BaseUnit != "Meter" {
			t.Errorf("fragment tracked in %q/%q, want base unit Meter", fragment.Unit, fragment.BaseUnit)
		}
		if *fragment.InitialBalance != 350 || *fragment.CurrentBalance != 350 {
			t.Errorf("fragment balances = %v/%v, want 350/350", *fragment.InitialBalance, *fragment.CurrentBalance)
		}
		if fragment.Name != p.Name || fragment.Brand != p.Brand {
			t.Error("fragment must inherit the parent's identity")
		}
	})

	t.Run("draining the parent does not consume the fragment", func(t *testing.T) {
		p := parent
		fragment, err := SplitFragment(&p, 2000, "AST-frag02", "warehouse1")
		if err != nil {
			t.Fatalf("SplitFragment() error = %v", err)
		}
		if p.Status != models.StatusConsumed {
			t.Errorf("parent status = %q, want %q", p.Status, models.StatusConsumed)
		}
		if fragment.Status != models.StatusInStorage {
			t.Errorf("fragment status = %q, want %q", fragment.Status, models.StatusInStorage)
		}
	})

	t.Run("rejects count units", func(t *testing.T) {
		p := models.InventoryUnit{BulkType: models.BulkTypeCount, InitialBalance: fptr(1), CurrentBalance: fptr(1)}
		if _, err := SplitFragment(&p, 1, "AST-frag03", "warehouse1"); err == nil {
			t.Error("SplitFragment() on a count unit must fail")
		}
	})

	t.Run("rejects parent without initial balance", func(t *testing.T) {
		p := models.InventoryUnit{BulkType: models.BulkTypeMeasurement}
		if _, err := SplitFragment(&p, 10, "AST-frag04", "warehouse1"); !errors.Is(err, ErrNoInitialBalance) {
			t.Errorf("SplitFragment() error = %v, want ErrNoInitialBalance", err)
		}
	})
}
