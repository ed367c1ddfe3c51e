// server/internal/handover/resolver.go
package handover

import (
	"strings"

	"fieldops-inventory-api-server/internal/models"
)

// Resolver normalizes source documents into a HandoverInitialState. It works
// over an in-memory snapshot of the inventory and catalog supplied by the
// caller; resolving the same document against the same snapshot twice yields
// the same result.
type Resolver struct {
	Units   []models.InventoryUnit
	Catalog []models.StandardItem

	// CurrentUser is the logged-in user processing the handover. Dismantle
	// returns are received by this user.
	CurrentUser string
}

// Resolve dispatches over the source document variants. A nil source returns
// nil; callers treat that as "no applicable strategy" and do nothing.
func (r *Resolver) Resolve(src Source) *models.HandoverInitialState {
	switch s := src.(type) {
	case NewRequestSource:
		return r.resolveNewRequest(s.Request)
	case LoanSource:
		return r.resolveLoan(s.Loan)
	case InstallationSource:
		return r.resolveInstallation(s.Installation)
	case DismantleSource:
		return r.resolveDismantle(s.Dismantle)
	case SingleAssetSource:
		if s.Unit.Status == models.StatusUnderRepair || s.Unit.Status == models.StatusOutForRepair {
			return r.resolveRepair(s.Unit)
		}
		return r.resolveSingleAsset(s.Unit)
	default:
		return nil
	}
}

func (r *Resolver) findUnit(assetID string) *models.InventoryUnit {
	for i := range r.Units {
		if r.Units[i].AssetID == assetID {
			return &r.Units[i]
		}
	}
	return nil
}

func (r *Resolver) findCatalogEntry(name, brand string) *models.StandardItem {
	for i := range r.Catalog {
		entry := &r.Catalog[i]
		if strings.EqualFold(entry.Name, name) && strings.EqualFold(entry.Brand, brand) {
			return entry
		}
	}
	// Fall back to a name-only match; catalog brands are free text upstream.
	for i := range r.Catalog {
		if strings.EqualFold(r.Catalog[i].Name, name) {
			return &r.Catalog[i]
		}
	}
	return nil
}

// resolveLoan emits one locked line per admin-assigned unit, or one unlocked
// line per requested item when no units were assigned yet. Loan terms are
// fixed once approved, so the whole document is locked.
func (r *Resolver) resolveLoan(loan models.LoanRequest) *models.HandoverInitialState {
	items := []models.HandoverLineItem{}
	for _, li := range loan.Items {
		if len(li.AssignedAssetIDs) > 0 {
			for _, assetID := range li.AssignedAssetIDs {
				line := models.HandoverLineItem{
					AssetID:  assetID,
					ItemName: li.ItemName,
					Brand:    li.Brand,
					Quantity: 1,
					Unit:     li.Unit,
					IsLocked: true,
				}
				if unit := r.findUnit(assetID); unit != nil {
					line.ConditionNotes = unit.Condition
				}
				items = append(items, line)
			}
			continue
		}
		items = append(items, models.HandoverLineItem{
			ItemName: li.ItemName,
			Brand:    li.Brand,
			Quantity: li.Quantity,
			Unit:     li.Unit,
		})
	}

	return &models.HandoverInitialState{
		Recipient:         loan.BorrowerName,
		DivisionID:        loan.DivisionID,
		Reference:         loan.LoanID,
		Items:             items,
		Notes:             loan.Notes,
		IsLocked:          true,
		TargetAssetStatus: models.StatusInUse,
	}
}

// resolveInstallation lists what the technician carries out to the customer
// site: the devices to install plus the consumables the job will use.
func (r *Resolver) resolveInstallation(inst models.Installation) *models.HandoverInitialState {
	items := []models.HandoverLineItem{}
	for _, asset := range inst.AssetsInstalled {
		line := models.HandoverLineItem{
			AssetID:  asset.AssetID,
			ItemName: asset.ItemName,
			Brand:    asset.Brand,
			Quantity: 1,
		}
		if unit := r.findUnit(asset.AssetID); unit != nil {
			line.ConditionNotes = unit.Condition
			line.Unit = unit.Unit
		}
		items = append(items, line)
	}
	for _, mat := range inst.MaterialsUsed {
		items = append(items, models.HandoverLineItem{
			AssetID:  mat.MaterialAssetID,
			ItemName: mat.ItemName,
			Brand:    mat.Brand,
			Quantity: mat.Quantity,
			Unit:     mat.Unit,
		})
	}

	return &models.HandoverInitialState{
		Recipient:         inst.TechnicianName,
		Reference:         inst.InstallationID,
		Items:             items,
		Notes:             inst.Notes,
		TargetAssetStatus: models.StatusInUse,
	}
}

// resolveDismantle hands the retrieved asset back into the warehouse. The
// condition recorded at retrieval is final and the recipient is whoever is
// processing the return right now.
func (r *Resolver) resolveDismantle(d models.Dismantle) *models.HandoverInitialState {
	line := models.HandoverLineItem{
		AssetID:        d.AssetID,
		ItemName:       d.ItemName,
		Brand:          d.Brand,
		ConditionNotes: d.RetrievedCondition,
		Quantity:       1,
		IsLocked:       true,
	}
	if unit := r.findUnit(d.AssetID); unit != nil {
		line.Unit = unit.Unit
	}

	return &models.HandoverInitialState{
		Recipient:         r.CurrentUser,
		Reference:         d.DismantleID,
		Items:             []models.HandoverLineItem{line},
		Notes:             d.Notes,
		IsLocked:          true,
		TargetAssetStatus: models.StatusInStorage,
	}
}

// resolveRepair returns a serviced unit to its prior holder.
func (r *Resolver) resolveRepair(unit models.InventoryUnit) *models.HandoverInitialState {
	return &models.HandoverInitialState{
		Recipient:         unit.CurrentUser,
		Reference:         unit.AssetID,
		Items:             []models.HandoverLineItem{singleUnitLine(unit)},
		TargetAssetStatus: models.StatusInUse,
	}
}

// resolveSingleAsset wraps one unit; the recipient is left blank for manual
// entry.
func (r *Resolver) resolveSingleAsset(unit models.InventoryUnit) *models.HandoverInitialState {
	return &models.HandoverInitialState{
		Reference:         unit.AssetID,
		Items:             []models.HandoverLineItem{singleUnitLine(unit)},
		TargetAssetStatus: models.StatusInUse,
	}
}

func singleUnitLine(unit models.InventoryUnit) models.HandoverLineItem {
	return models.HandoverLineItem{
		AssetID:        unit.AssetID,
		ItemName:       unit.Name,
		Brand:          unit.Brand,
		ConditionNotes: unit.Condition,
		Quantity:       1,
		Unit:           unit.Unit,
		IsLocked:       true,
	}
}
