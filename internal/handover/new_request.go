// server/internal/handover/new_request.go
package handover

import (
	"math"
	"sort"
	"strings"

	"fieldops-inventory-api-server/internal/inventory"
	"fieldops-inventory-api-server/internal/models"
)

// resolveNewRequest reconciles newly procured units against an approved
// procurement request. Each non-rejected line is fulfilled from units tagged
// with the request's reference; whatever is left over becomes unlocked
// shortfall lines the user resolves manually at handover time. The used-unit
// set is scoped to the whole resolution so one procured unit can never
// fulfill two lines.
func (r *Resolver) resolveNewRequest(req models.ProcurementRequest) *models.HandoverInitialState {
	reference := req.PONumber
	if reference == "" {
		reference = req.RequestID
	}

	used := make(map[string]bool)
	items := []models.HandoverLineItem{}
	for _, line := range req.Lines {
		if line.Status == models.LineStatusRejected {
			continue
		}
		items = append(items, r.resolveRequestLine(req, line, used)...)
	}

	return &models.HandoverInitialState{
		Recipient:         req.RequesterName,
		DivisionID:        req.DivisionID,
		Reference:         reference,
		Items:             items,
		Notes:             req.Notes,
		TargetAssetStatus: models.StatusInUse,
	}
}

// resolveRequestLine turns one request line into locked lines for procured
// units plus shortfall placeholders, recording every consumed unit in used.
func (r *Resolver) resolveRequestLine(req models.ProcurementRequest, line models.RequestLine, used map[string]bool) []models.HandoverLineItem {
	targetQty := line.Quantity
	if line.ApprovedQuantity != nil {
		targetQty = *line.ApprovedQuantity
	}
	if targetQty <= 0 {
		return nil
	}

	matched := r.matchProcuredUnits(req, line, used)
	measurement := r.isMeasurementLine(line, matched)

	items := []models.HandoverLineItem{}
	fulfilled := 0.0
	if measurement {
		// Every procured container tagged to the request becomes one locked
		// line of one container, contributing its remaining balance.
		for _, unit := range matched {
			used[unit.AssetID] = true
			containerUnit := unit.Unit
			if containerUnit == "" {
				containerUnit = "Unit"
			}
			items = append(items, models.HandoverLineItem{
				AssetID:        unit.AssetID,
				ItemName:       line.ItemName,
				Brand:          unit.Brand,
				ConditionNotes: unit.Condition,
				Quantity:       1,
				Unit:           containerUnit,
				IsLocked:       true,
			})
			fulfilled += inventory.EffectiveBalance(&unit)
		}
	} else {
		for _, unit := range matched {
			if fulfilled+inventory.Epsilon >= targetQty {
				break
			}
			used[unit.AssetID] = true
			items = append(items, models.HandoverLineItem{
				AssetID:        unit.AssetID,
				ItemName:       line.ItemName,
				Brand:          unit.Brand,
				ConditionNotes: unit.Condition,
				Quantity:       1,
				Unit:           line.Unit,
				IsLocked:       true,
			})
			fulfilled++
		}
	}

	// Floor the remainder at epsilon so float drift from fractional balances
	// never produces a phantom shortfall.
	remaining := targetQty - fulfilled
	if remaining < inventory.Epsilon {
		return items
	}

	if measurement {
		items = append(items, models.HandoverLineItem{
			ItemName: line.ItemName,
			Brand:    line.Brand,
			Quantity: remaining,
			Unit:     line.Unit,
		})
		return items
	}

	for i := 0; i < int(math.Round(remaining)); i++ {
		items = append(items, models.HandoverLineItem{
			ItemName: line.ItemName,
			Brand:    line.Brand,
			Quantity: 1,
			Unit:     line.Unit,
		})
	}
	return items
}

// matchProcuredUnits finds units bought under this request that are still in
// storage and not already claimed by an earlier line. Results come back
// oldest first so locked lines follow the same FIFO order allocation uses.
func (r *Resolver) matchProcuredUnits(req models.ProcurementRequest, line models.RequestLine, used map[string]bool) []models.InventoryUnit {
	matched := []models.InventoryUnit{}
	for i := range r.Units {
		u := &r.Units[i]
		if used[u.AssetID] || u.Status != models.StatusInStorage {
			continue
		}
		if u.ProcurementRef == "" {
			continue
		}
		if !strings.EqualFold(u.ProcurementRef, req.PONumber) && !strings.EqualFold(u.ProcurementRef, req.RequestID) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(u.Name), strings.TrimSpace(line.ItemName)) {
			continue
		}
		if line.Brand != "" && !strings.Contains(strings.ToLower(u.Brand), strings.ToLower(line.Brand)) {
			continue
		}
		matched = append(matched, *u)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].RegistrationDate.Equal(matched[j].RegistrationDate) {
			return matched[i].RegistrationDate.Before(matched[j].RegistrationDate)
		}
		return matched[i].AssetID < matched[j].AssetID
	})
	return matched
}

// isMeasurementLine decides how a request line is fulfilled. The explicit
// bulk type on a procured unit wins; units registered before the catalog had
// an entry fall back to the initial-balance heuristic, and with no procured
// units at all the catalog decides. Unknown models default to count.
func (r *Resolver) isMeasurementLine(line models.RequestLine, matched []models.InventoryUnit) bool {
	if len(matched) > 0 {
		u := &matched[0]
		if u.BulkType != "" {
			return u.BulkType == models.BulkTypeMeasurement
		}
		return u.InitialBalance != nil && *u.InitialBalance > 0
	}
	if entry := r.findCatalogEntry(line.ItemName, line.Brand); entry != nil {
		return entry.BulkType == models.BulkTypeMeasurement
	}
	return false
}
