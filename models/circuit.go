package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/telcoflow/circuits_backend/config"
	"github.com/telcoflow/circuits_backend/models/reconcile"
	"github.com/telcoflow/circuits_backend/utils"
)

type Circuit struct {
	ID                int             `gorm:"primary_key" json:"id"`
	LocationId        int             `gorm:"index;not null" json:"location_id" binding:"required"`
	Location          *Location       `gorm:"foreignKey:LocationId" json:"location,omitempty"`
	Carrier           string          `gorm:"size:100;not null" json:"carrier" binding:"required"`
	Type              CircuitType     `gorm:"type:enum('MPLS','DIA','Broadband');not null" json:"type" binding:"required"`
	Purpose           CircuitPurpose  `gorm:"type:enum('Primary','Secondary','Backup');not null" json:"purpose" binding:"required"`
	Status            CircuitStatus   `gorm:"type:enum('Active','Inactive','Quoted');default:'Active'" json:"status"`
	Bandwidth         string          `gorm:"size:50;not null" json:"bandwidth" binding:"required"`
	MonthlyCost       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthlycost"`
	StaticIps         int             `gorm:"default:0" json:"static_ips"`
	UploadBandwidth   *string         `gorm:"size:50" json:"upload_bandwidth"`
	ContractStartDate *time.Time      `json:"contract_start_date"`
	ContractTerm      int             `gorm:"default:12" json:"contract_term"`
	ContractEndDate   *time.Time      `json:"contract_end_date"`
	Billing           BillingCycle    `gorm:"type:enum('Monthly','Quarterly','Annually');default:'Monthly'" json:"billing"`
	UsageCharges      *bool           `gorm:"not null;default:false" json:"usage_charges"`
	InstallationCost  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"installation_cost"`
	Notes             *string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCircuit struct {
	LocationId        int             `json:"location_id" binding:"required"`
	Carrier           string          `json:"carrier" binding:"required"`
	Type              CircuitType     `json:"type" binding:"required"`
	Purpose           CircuitPurpose  `json:"purpose" binding:"required"`
	Status            CircuitStatus   `json:"status"`
	Bandwidth         string          `json:"bandwidth" binding:"required"`
	MonthlyCost       decimal.Decimal `json:"monthlycost"`
	StaticIps         int             `json:"static_ips"`
	UploadBandwidth   *string         `json:"upload_bandwidth"`
	ContractStartDate *time.Time      `json:"contract_start_date"`
	ContractTerm      int             `json:"contract_term"`
	ContractEndDate   *time.Time      `json:"contract_end_date"`
	Billing           BillingCycle    `json:"billing"`
	UsageCharges      *bool           `json:"usage_charges"`
	InstallationCost  decimal.Decimal `json:"installation_cost"`
	Notes             *string         `json:"notes"`
}

type CircuitListFilter struct {
	LocationId int
	Carrier    string
	Purpose    string
	Status     string
	Search     string
}

func (input *NewCircuit) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Circuit](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Location](ctx, input.LocationId); err != nil {
		return err
	}
	if err := input.Type.Validate(); err != nil {
		return err
	}
	if err := input.Purpose.Validate(); err != nil {
		return err
	}
	if input.Status != "" {
		if err := input.Status.Validate(); err != nil {
			return err
		}
	}
	if input.Billing != "" {
		if err := input.Billing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func CreateCircuit(ctx context.Context, input *NewCircuit) (*Circuit, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = CircuitStatusActive
	}
	billing := input.Billing
	if billing == "" {
		billing = BillingCycleMonthly
	}
	usageCharges := input.UsageCharges
	if usageCharges == nil {
		usageCharges = utils.NewFalse()
	}

	circuit := Circuit{
		LocationId:        input.LocationId,
		Carrier:           input.Carrier,
		Type:              input.Type,
		Purpose:           input.Purpose,
		Status:            status,
		Bandwidth:         input.Bandwidth,
		MonthlyCost:       input.MonthlyCost,
		StaticIps:         input.StaticIps,
		UploadBandwidth:   input.UploadBandwidth,
		ContractStartDate: input.ContractStartDate,
		ContractTerm:      input.ContractTerm,
		ContractEndDate:   input.ContractEndDate,
		Billing:           billing,
		UsageCharges:      usageCharges,
		InstallationCost:  input.InstallationCost,
		Notes:             input.Notes,
	}
	if circuit.ContractTerm <= 0 {
		circuit.ContractTerm = 12
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&circuit).Error
	if err != nil {
		return nil, err
	}

	PublishLocationCircuitsChanged(ctx, circuit.LocationId)
	return &circuit, nil
}

func UpdateCircuit(ctx context.Context, id int, input *NewCircuit) (*Circuit, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	circuit, err := utils.FetchModel[Circuit](ctx, id)
	if err != nil {
		return nil, err
	}
	oldLocationId := circuit.LocationId

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&circuit).Updates(map[string]interface{}{
		"LocationId":        input.LocationId,
		"Carrier":           input.Carrier,
		"Type":              input.Type,
		"Purpose":           input.Purpose,
		"Status":            input.Status,
		"Bandwidth":         input.Bandwidth,
		"MonthlyCost":       input.MonthlyCost,
		"StaticIps":         input.StaticIps,
		"UploadBandwidth":   input.UploadBandwidth,
		"ContractStartDate": input.ContractStartDate,
		"ContractTerm":      input.ContractTerm,
		"ContractEndDate":   input.ContractEndDate,
		"Billing":           input.Billing,
		"UsageCharges":      input.UsageCharges,
		"InstallationCost":  input.InstallationCost,
		"Notes":             input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}

	// proposed views embed this circuit's fields, so they go stale too
	refs, err := proposalRefsForCircuit(ctx, id)
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Circuit](id)
	PublishCircuitViewsChanged(ctx, circuit.LocationId, refs)
	if oldLocationId != circuit.LocationId {
		PublishLocationCircuitsChanged(ctx, oldLocationId)
	}
	return circuit, nil
}

func DeleteCircuit(ctx context.Context, id int) (*Circuit, error) {

	circuit, err := utils.FetchModel[Circuit](ctx, id)
	if err != nil {
		return nil, err
	}

	// capture affected proposal views before the rows disappear
	refs, err := proposalRefsForCircuit(ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("circuit_id = ?", id).Delete(&ProposalCircuit{}).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&circuit).Error; err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Circuit](id)
	PublishCircuitViewsChanged(ctx, circuit.LocationId, refs)
	return circuit, nil
}

func GetCircuit(ctx context.Context, id int) (*Circuit, error) {

	if cached, err := utils.RetrieveRedis[Circuit](id); err == nil && cached != nil {
		return cached, nil
	}
	circuit, err := utils.FetchModel[Circuit](ctx, id)
	if err != nil {
		return nil, err
	}
	utils.StoreRedis[Circuit](circuit, id)
	return circuit, nil
}

func GetCircuits(ctx context.Context, filter *CircuitListFilter) ([]*Circuit, error) {

	db := config.GetDB()
	var results []*Circuit

	dbCtx := db.WithContext(ctx).Preload("Location")
	if filter != nil {
		if filter.LocationId > 0 {
			dbCtx = dbCtx.Where("location_id = ?", filter.LocationId)
		}
		if filter.Carrier != "" {
			dbCtx = dbCtx.Where("carrier = ?", filter.Carrier)
		}
		if filter.Purpose != "" {
			dbCtx = dbCtx.Where("purpose = ?", filter.Purpose)
		}
		if filter.Status != "" {
			dbCtx = dbCtx.Where("status = ?", filter.Status)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			dbCtx = dbCtx.Where("carrier LIKE ? OR type LIKE ? OR bandwidth LIKE ?", like, like, like).
				Limit(config.SearchLimit)
		}
	}
	err := dbCtx.Order("carrier").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetActiveCircuits returns the circuits currently in service at a location,
// shaped for the reconciliation engine.
func GetActiveCircuits(ctx context.Context, locationId int) ([]reconcile.CircuitRecord, error) {

	db := config.GetDB()
	var circuits []*Circuit
	err := db.WithContext(ctx).
		Where("location_id = ? AND status = ?", locationId, CircuitStatusActive).
		Find(&circuits).Error
	if err != nil {
		return nil, err
	}

	records := make([]reconcile.CircuitRecord, 0, len(circuits))
	for _, c := range circuits {
		records = append(records, c.ToRecord())
	}
	return records, nil
}

// ToRecord shapes a circuit row into the plain value the reconciliation core consumes.
func (c *Circuit) ToRecord() reconcile.CircuitRecord {
	return reconcile.CircuitRecord{
		ID:               c.ID,
		Carrier:          c.Carrier,
		Type:             string(c.Type),
		Purpose:          string(c.Purpose),
		Status:           string(c.Status),
		Bandwidth:        c.Bandwidth,
		MonthlyCost:      c.MonthlyCost,
		StaticIPs:        c.StaticIps,
		UploadBandwidth:  utils.DereferencePtr(c.UploadBandwidth),
		ContractTerm:     c.ContractTerm,
		Billing:          string(c.Billing),
		UsageCharges:     utils.DereferencePtr(c.UsageCharges),
		InstallationCost: c.InstallationCost,
		Notes:            utils.DereferencePtr(c.Notes),
		LocationID:       c.LocationId,
	}
}
