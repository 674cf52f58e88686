package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/telcoflow/circuits_backend/config"
	"github.com/telcoflow/circuits_backend/models/reconcile"
	"github.com/telcoflow/circuits_backend/utils"
)

// ProposalCircuit is a circuit carried by a proposal at a location.
// Cost and term fields override the underlying circuit for the life of the
// proposal; the circuit row itself stays untouched until approval.
type ProposalCircuit struct {
	ID               int              `gorm:"primary_key" json:"id"`
	ProposalId       int              `gorm:"index;not null;uniqueIndex:idx_proposal_circuit" json:"proposal_id"`
	CircuitId        int              `gorm:"not null;uniqueIndex:idx_proposal_circuit" json:"circuit_id"`
	Circuit          *Circuit         `gorm:"foreignKey:CircuitId" json:"circuit,omitempty"`
	LocationId       int              `gorm:"index;not null" json:"location_id"`
	MonthlyCost      *decimal.Decimal `gorm:"type:decimal(20,4)" json:"monthly_cost"`
	InstallationCost *decimal.Decimal `gorm:"type:decimal(20,4)" json:"installation_cost"`
	TermMonths       *int             `json:"term_months"`
	Notes            *string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProposalCircuit struct {
	CircuitId        int              `json:"circuit_id" binding:"required"`
	MonthlyCost      *decimal.Decimal `json:"monthly_cost"`
	InstallationCost *decimal.Decimal `json:"installation_cost"`
	TermMonths       *int             `json:"term_months"`
	Notes            *string          `json:"notes"`
}

// ProposeCircuit adds a circuit to a proposal (propose-add).
// Serialized per proposal via a best-effort redis lock.
func ProposeCircuit(ctx context.Context, proposalId int, input *NewProposalCircuit) (*ProposalCircuit, error) {

	lock, err := utils.ProposalLock(ctx, proposalId, "proposalCircuit.go", "ProposeCircuit")
	if err != nil {
		return nil, err
	}
	if lock != nil {
		defer lock.Release(ctx)
	}

	proposal, err := utils.FetchModel[Proposal](ctx, proposalId)
	if err != nil {
		return nil, err
	}
	if proposal.Status == ProposalStatusApproved || proposal.Status == ProposalStatusRejected {
		return nil, errors.New("proposal is closed")
	}
	circuit, err := utils.FetchModel[Circuit](ctx, input.CircuitId)
	if err != nil {
		return nil, err
	}

	// the circuit's location must be in the proposal's scope
	count, err := utils.ResourceCountWhere[ProposalLocation](ctx,
		"proposal_id = ? AND location_id = ?", proposalId, circuit.LocationId)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, errors.New("circuit's location is not part of the proposal")
	}

	pc := ProposalCircuit{
		ProposalId:       proposalId,
		CircuitId:        input.CircuitId,
		LocationId:       circuit.LocationId,
		MonthlyCost:      input.MonthlyCost,
		InstallationCost: input.InstallationCost,
		TermMonths:       input.TermMonths,
		Notes:            input.Notes,
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&pc).Error; err != nil {
		return nil, err
	}

	PublishProposalCircuitsChanged(ctx, proposalId, circuit.LocationId)
	return &pc, nil
}

// WithdrawCircuit removes a circuit from a proposal (propose-remove).
func WithdrawCircuit(ctx context.Context, proposalId int, circuitId int) (*ProposalCircuit, error) {

	lock, err := utils.ProposalLock(ctx, proposalId, "proposalCircuit.go", "WithdrawCircuit")
	if err != nil {
		return nil, err
	}
	if lock != nil {
		defer lock.Release(ctx)
	}

	db := config.GetDB()
	var pc ProposalCircuit
	if err := db.WithContext(ctx).
		Where("proposal_id = ? AND circuit_id = ?", proposalId, circuitId).
		First(&pc).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := db.WithContext(ctx).Delete(&pc).Error; err != nil {
		return nil, err
	}

	PublishProposalCircuitsChanged(ctx, proposalId, pc.LocationId)
	return &pc, nil
}

// UpdateProposalCircuit changes the proposal-level overrides of a proposed circuit.
func UpdateProposalCircuit(ctx context.Context, proposalId int, circuitId int, input *NewProposalCircuit) (*ProposalCircuit, error) {

	db := config.GetDB()
	var pc ProposalCircuit
	if err := db.WithContext(ctx).
		Where("proposal_id = ? AND circuit_id = ?", proposalId, circuitId).
		First(&pc).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	err := db.WithContext(ctx).Model(&pc).Updates(map[string]interface{}{
		"MonthlyCost":      input.MonthlyCost,
		"InstallationCost": input.InstallationCost,
		"TermMonths":       input.TermMonths,
		"Notes":            input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}

	PublishProposalCircuitsChanged(ctx, proposalId, pc.LocationId)
	return &pc, nil
}

// proposalRefsForCircuit lists the (proposal, location) pairs whose proposed
// views include the circuit.
func proposalRefsForCircuit(ctx context.Context, circuitId int) ([]ProposalCircuit, error) {

	db := config.GetDB()
	var refs []ProposalCircuit
	err := db.WithContext(ctx).Select("proposal_id", "location_id").
		Where("circuit_id = ?", circuitId).Find(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// GetProposedCircuits returns the circuits proposed for a location under a
// proposal, shaped for the reconciliation engine with the proposal-level
// overrides applied on top of the underlying circuit rows.
func GetProposedCircuits(ctx context.Context, proposalId int, locationId int) ([]reconcile.CircuitRecord, error) {

	db := config.GetDB()
	var pcs []*ProposalCircuit
	err := db.WithContext(ctx).Preload("Circuit").
		Where("proposal_id = ? AND location_id = ?", proposalId, locationId).
		Find(&pcs).Error
	if err != nil {
		return nil, err
	}

	records := make([]reconcile.CircuitRecord, 0, len(pcs))
	for _, pc := range pcs {
		if pc.Circuit == nil {
			// dangling reference, circuit deleted after proposing
			continue
		}
		record := pc.Circuit.ToRecord()
		if pc.MonthlyCost != nil {
			record.MonthlyCost = *pc.MonthlyCost
		}
		if pc.InstallationCost != nil {
			record.InstallationCost = *pc.InstallationCost
		}
		if pc.TermMonths != nil {
			record.ContractTerm = *pc.TermMonths
		}
		records = append(records, record)
	}
	return records, nil
}
