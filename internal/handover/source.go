// server/internal/handover/source.go
package handover

import (
	"fieldops-inventory-api-server/internal/models"
)

// Source is the tagged union of documents a handover can start from. The
// concrete variant is picked at the API boundary where the document enters
// this package, so resolution dispatches on type instead of probing fields.
type Source interface {
	isHandoverSource()
}

// NewRequestSource starts a handover from an approved procurement request,
// reconciling newly procured units against the requested quantities.
type NewRequestSource struct {
	Request models.ProcurementRequest
}

// LoanSource starts a handover from a loan request.
type LoanSource struct {
	Loan models.LoanRequest
}

// InstallationSource starts a handover from a customer installation record.
type InstallationSource struct {
	Installation models.Installation
}

// DismantleSource starts a handover from a dismantle record: the technician
// hands the retrieved asset back to whoever is processing the return.
type DismantleSource struct {
	Dismantle models.Dismantle
}

// SingleAssetSource starts a handover from one concrete unit, covering both
// the plain transfer and the repair return path.
type SingleAssetSource struct {
	Unit models.InventoryUnit
}

func (NewRequestSource) isHandoverSource()   {}
func (LoanSource) isHandoverSource()         {}
func (InstallationSource) isHandoverSource() {}
func (DismantleSource) isHandoverSource()    {}
func (SingleAssetSource) isHandoverSource()  {}
