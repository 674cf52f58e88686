package models

import (
	"context"
	"fmt"
	"time"

	"github.com/telcoflow/circuits_backend/config"
	"github.com/telcoflow/circuits_backend/utils"
)

type Location struct {
	ID          int                 `gorm:"primary_key" json:"id"`
	CompanyId   int                 `gorm:"index;not null" json:"company_id" binding:"required"`
	Company     *Company            `gorm:"foreignKey:CompanyId" json:"company,omitempty"`
	Name        string              `gorm:"size:100;not null" json:"name" binding:"required"`
	Address     string              `gorm:"size:255" json:"address"`
	City        string              `gorm:"size:100;index" json:"city"`
	State       string              `gorm:"size:100;index" json:"state"`
	Zip         string              `gorm:"size:20" json:"zip"`
	Country     string              `gorm:"size:100" json:"country"`
	Criticality LocationCriticality `gorm:"type:enum('High','Medium','Low');default:'Medium'" json:"criticality"`
	Latitude    *float64            `json:"latitude"`
	Longitude   *float64            `json:"longitude"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewLocation struct {
	CompanyId   int                 `json:"company_id" binding:"required"`
	Name        string              `json:"name" binding:"required"`
	Address     string              `json:"address"`
	City        string              `json:"city"`
	State       string              `json:"state"`
	Zip         string              `json:"zip"`
	Country     string              `json:"country"`
	Criticality LocationCriticality `json:"criticality"`
	Latitude    *float64            `json:"latitude"`
	Longitude   *float64            `json:"longitude"`
}

type LocationListFilter struct {
	Search      string
	State       string
	City        string
	Criticality string
	CompanyId   int
}

func (input *NewLocation) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Location](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Company](ctx, input.CompanyId); err != nil {
		return err
	}
	if input.Criticality != "" {
		if err := input.Criticality.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func CreateLocation(ctx context.Context, input *NewLocation) (*Location, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	criticality := input.Criticality
	if criticality == "" {
		criticality = LocationCriticalityMedium
	}

	location := Location{
		CompanyId:   input.CompanyId,
		Name:        input.Name,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Zip:         input.Zip,
		Country:     input.Country,
		Criticality: criticality,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&location).Error
	if err != nil {
		return nil, err
	}

	return &location, nil
}

func UpdateLocation(ctx context.Context, id int, input *NewLocation) (*Location, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	location, err := utils.FetchModel[Location](ctx, id)
	if err != nil {
		return nil, err
	}

	// Moving a location to another company invalidates proposals built against
	// the old company; detach the location (and its proposed circuits) from them.
	db := config.GetDB()
	if location.CompanyId != input.CompanyId {
		if err := detachLocationFromProposals(ctx, id); err != nil {
			return nil, err
		}
	}

	err = db.WithContext(ctx).Model(&location).Updates(map[string]interface{}{
		"CompanyId":   input.CompanyId,
		"Name":        input.Name,
		"Address":     input.Address,
		"City":        input.City,
		"State":       input.State,
		"Zip":         input.Zip,
		"Country":     input.Country,
		"Criticality": input.Criticality,
		"Latitude":    input.Latitude,
		"Longitude":   input.Longitude,
	}).Error
	if err != nil {
		return nil, err
	}
	return location, nil
}

func UpdateLocationCriticality(ctx context.Context, id int, criticality LocationCriticality) (*Location, error) {

	if err := criticality.Validate(); err != nil {
		return nil, err
	}
	location, err := utils.FetchModel[Location](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&location).Update("Criticality", criticality).Error
	if err != nil {
		return nil, err
	}
	return location, nil
}

func DeleteLocation(ctx context.Context, id int) (*Location, error) {

	location, err := utils.FetchModel[Location](ctx, id)
	if err != nil {
		return nil, err
	}

	// Deleting a location cascades to its circuits and proposal references.
	db := config.GetDB()
	if err := detachLocationFromProposals(ctx, id); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Where("location_id = ?", id).Delete(&Circuit{}).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&location).Error; err != nil {
		return nil, err
	}
	PublishLocationCircuitsChanged(ctx, id)

	return location, nil
}

func GetLocation(ctx context.Context, id int) (*Location, error) {
	return utils.FetchModel[Location](ctx, id, "Company")
}

func GetLocations(ctx context.Context, filter *LocationListFilter) ([]*Location, error) {

	db := config.GetDB()
	var results []*Location

	dbCtx := db.WithContext(ctx).Preload("Company")
	if filter != nil {
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			dbCtx = dbCtx.Where("name LIKE ? OR address LIKE ? OR city LIKE ?", like, like, like).
				Limit(config.SearchLimit)
		}
		if filter.State != "" {
			dbCtx = dbCtx.Where("state = ?", filter.State)
		}
		if filter.City != "" {
			dbCtx = dbCtx.Where("city = ?", filter.City)
		}
		if filter.Criticality != "" {
			dbCtx = dbCtx.Where("criticality = ?", filter.Criticality)
		}
		if filter.CompanyId > 0 {
			dbCtx = dbCtx.Where("company_id = ?", filter.CompanyId)
		}
	}
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetLocationDependencies lists circuits that would be deleted along with the location.
func GetLocationDependencies(ctx context.Context, id int) ([]*Circuit, error) {

	db := config.GetDB()
	var circuits []*Circuit
	err := db.WithContext(ctx).Where("location_id = ?", id).
		Select("id", "carrier", "type", "purpose").Find(&circuits).Error
	if err != nil {
		return nil, err
	}
	return circuits, nil
}

// removes the location (and its proposed circuits) from every proposal
// referencing it, then notifies the affected proposal views
func detachLocationFromProposals(ctx context.Context, locationId int) error {
	db := config.GetDB()

	// capture affected proposals before the links disappear
	var proposalIds []int
	if err := db.WithContext(ctx).Model(&ProposalLocation{}).
		Where("location_id = ?", locationId).
		Distinct().Pluck("proposal_id", &proposalIds).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).Where("location_id = ?", locationId).Delete(&ProposalCircuit{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where("location_id = ?", locationId).Delete(&ProposalLocation{}).Error; err != nil {
		return err
	}

	for _, proposalId := range proposalIds {
		utils.RemoveRedisList[Location](fmt.Sprint(proposalId))
		PublishProposalCircuitsChanged(ctx, proposalId, locationId)
	}
	return nil
}
