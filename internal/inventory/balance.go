// server/internal/inventory/balance.go
package inventory

import (
	"errors"
	"fmt"
	"time"

	"fieldops-inventory-api-server/internal/models"
)

// Epsilon absorbs floating-point drift from repeated fractional consumption.
// Remainders below it are treated as zero.
const Epsilon = 1e-4

var (
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient remaining balance")
	ErrNoInitialBalance    = errors.New("measurement unit has no positive initial balance")
)

// EffectiveBalance resolves the usable balance of a unit with a fixed
// precedence: explicit current balance, then initial balance, then zero.
// Count units without balances resolve through the same chain (a registered
// count unit is one piece, so its balances are set to 1 at registration).
func EffectiveBalance(u *models.InventoryUnit) float64 {
	if u == nil {
		return 0
	}
	if u.CurrentBalance != nil {
		return *u.CurrentBalance
	}
	if u.InitialBalance != nil {
		return *u.InitialBalance
	}
	return 0
}

// Selectable reports whether a unit may be chosen as an allocation target.
// Exhausted units stay visible in candidate lists but cannot be picked.
func Selectable(u *models.InventoryUnit) bool {
	return EffectiveBalance(u) > 0
}

// Consume draws qty from a unit's remaining balance. A unit drained to within
// Epsilon of zero is marked consumed.
func Consume(u *models.InventoryUnit, qty float64) error {
	if qty <= 0 {
		return ErrNonPositiveQuantity
	}
	balance := EffectiveBalance(u)
	if balance+Epsilon < qty {
		return fmt.Errorf("%w: have %.4f, need %.4f", ErrInsufficientBalance, balance, qty)
	}

	remaining := balance - qty
	if remaining <= Epsilon {
		remaining = 0
		u.Status = models.StatusConsumed
	}
	u.CurrentBalance = &remaining
	return nil
}

// SplitFragment carves qty base units off a measurement container into a new
// fragment unit, reducing the parent's balance. The fragment inherits the
// parent's identity fields but is tracked in the base unit and flagged so it
// never counts toward container-level stock alerts.
func SplitFragment(parent *models.InventoryUnit, qty float64, fragmentAssetID, recordedBy string) (models.InventoryUnit, error) {
	if parent.BulkType != models.BulkTypeMeasurement {
		return models.InventoryUnit{}, errors.New("only measurement units can be split")
	}
	if parent.InitialBalance == nil || *parent.InitialBalance <= 0 {
		return models.InventoryUnit{}, ErrNoInitialBalance
	}
	if err := Consume(parent, qty); err != nil {
		return models.InventoryUnit{}, err
	}

	balance := qty
	fragment := models.InventoryUnit{
		AssetID:          fragmentAssetID,
		Name:             parent.Name,
		Brand:            parent.Brand,
		TrackingMethod:   models.TrackingBulk,
		BulkType:         models.BulkTypeMeasurement,
		Unit:             parent.BaseUnit,
		BaseUnit:         parent.BaseUnit,
		InitialBalance:   &balance,
		CurrentBalance:   &balance,
		IsFragment:       true,
		Status:           parent.Status,
		CurrentUser:      parent.CurrentUser,
		Location:         parent.Location,
		Condition:        parent.Condition,
		ProcurementRef:   parent.ProcurementRef,
		RegistrationDate: time.Now(),
		RecordedBy:       recordedBy,
	}
	if fragment.Status == models.StatusConsumed {
		// Draining the parent completely must not mark the fragment consumed.
		fragment.Status = models.StatusInStorage
		if parent.CurrentUser != "" {
			fragment.Status = models.StatusInCustody
		}
	}
	return fragment, nil
}
