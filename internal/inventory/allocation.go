// server/internal/inventory/allocation.go
package inventory

import (
	"sort"
	"strings"

	"fieldops-inventory-api-server/internal/models"
)

// SourceMode selects where an allocation draws stock from.
type SourceMode string

const (
	// SourcePersonal draws from units the technician already carries.
	SourcePersonal SourceMode = "personal"
	// SourceWarehouse draws from units sitting in storage.
	SourceWarehouse SourceMode = "warehouse"
)

// AllocationQuery describes the stock a requester wants to draw from.
type AllocationQuery struct {
	ItemName  string
	Brand     string
	Source    SourceMode
	OwnerName string // effective custody holder, only used with SourcePersonal
	Search    string // optional free-text filter over assetID/location/serial
}

// nameMatches applies bidirectional substring containment: a candidate name
// matches when it contains the query or the query contains it.
func nameMatches(candidate, query string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	q := strings.ToLower(strings.TrimSpace(query))
	if c == "" || q == "" {
		return false
	}
	return strings.Contains(c, q) || strings.Contains(q, c)
}

func matchesQuery(u *models.InventoryUnit, q AllocationQuery) bool {
	if !nameMatches(u.Name, q.ItemName) {
		return false
	}
	// Brand is only filtered when a target brand is given, and only one way:
	// the target must appear inside the candidate's brand.
	if brand := strings.ToLower(strings.TrimSpace(q.Brand)); brand != "" {
		if !strings.Contains(strings.ToLower(u.Brand), brand) {
			return false
		}
	}

	switch q.Source {
	case SourcePersonal:
		if !strings.EqualFold(strings.TrimSpace(u.CurrentUser), strings.TrimSpace(q.OwnerName)) {
			return false
		}
		if u.Status != models.StatusInCustody && u.Status != models.StatusInUse {
			return false
		}
	default:
		if u.Status != models.StatusInStorage {
			return false
		}
	}

	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		if !strings.Contains(strings.ToLower(u.AssetID), search) &&
			!strings.Contains(strings.ToLower(u.Location), search) &&
			!strings.Contains(strings.ToLower(u.SerialNumber), search) {
			return false
		}
	}
	return true
}

// Candidates filters and ranks the units a requester may draw from. Units
// with a positive balance come first, then oldest registration first (FIFO),
// ties broken by assetID so the order is deterministic. Exhausted units stay
// in the list so the caller can show them as "empty" instead of hiding them.
func Candidates(units []models.InventoryUnit, q AllocationQuery) []models.InventoryUnit {
	matched := make([]models.InventoryUnit, 0)
	for i := range units {
		if matchesQuery(&units[i], q) {
			matched = append(matched, units[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		iPositive := EffectiveBalance(&matched[i]) > 0
		jPositive := EffectiveBalance(&matched[j]) > 0
		if iPositive != jPositive {
			return iPositive
		}
		if !matched[i].RegistrationDate.Equal(matched[j].RegistrationDate) {
			return matched[i].RegistrationDate.Before(matched[j].RegistrationDate)
		}
		return matched[i].AssetID < matched[j].AssetID
	})
	return matched
}

// Recommend returns the unit the requester should draw from: the first ranked
// candidate, provided it still has balance to give. An empty candidate list
// or one made up entirely of exhausted units yields no recommendation, which
// is a valid outcome, not an error.
func Recommend(candidates []models.InventoryUnit) *models.InventoryUnit {
	if len(candidates) == 0 {
		return nil
	}
	if !Selectable(&candidates[0]) {
		return nil
	}
	return &candidates[0]
}
