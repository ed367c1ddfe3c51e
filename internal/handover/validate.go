// server/internal/handover/validate.go
package handover

import (
	"errors"
	"fmt"

	"fieldops-inventory-api-server/internal/models"
)

var (
	ErrNonPositiveQuantity  = errors.New("line quantity must be greater than zero")
	ErrNoMeasurementBalance = errors.New("measurement line needs a unit with a positive balance")
)

// ValidateLineItem is the only hard stop in the handover workflow: a line
// with a non-positive quantity, or a measurement line whose resolved unit has
// no positive initial balance, must be rejected before anything is persisted.
// Everything else degrades silently and is caught downstream.
func ValidateLineItem(item models.HandoverLineItem, unit *models.InventoryUnit) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: %s", ErrNonPositiveQuantity, item.ItemName)
	}
	if unit != nil && unit.BulkType == models.BulkTypeMeasurement {
		if unit.InitialBalance == nil || *unit.InitialBalance <= 0 {
			return fmt.Errorf("%w: %s", ErrNoMeasurementBalance, item.ItemName)
		}
	}
	return nil
}
