package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/telcoflow/circuits_backend/config"
	"github.com/telcoflow/circuits_backend/utils"
)

type Proposal struct {
	ID         int            `gorm:"primary_key" json:"id"`
	Name       string         `gorm:"size:100;not null" json:"name" binding:"required"`
	CompanyId  int            `gorm:"index;not null" json:"company_id" binding:"required"`
	Company    *Company       `gorm:"foreignKey:CompanyId" json:"company,omitempty"`
	Status     ProposalStatus `gorm:"type:enum('Draft','Pending','Approved','Rejected');default:'Draft'" json:"status"`
	ValidUntil *time.Time     `json:"valid_until"`
	Notes      *string        `gorm:"type:text" json:"notes"`
	CreatedBy  string         `gorm:"size:100" json:"created_by"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProposalLocation attaches a location to a proposal.
type ProposalLocation struct {
	ID         int       `gorm:"primary_key" json:"id"`
	ProposalId int       `gorm:"index;not null;uniqueIndex:idx_proposal_location" json:"proposal_id"`
	LocationId int       `gorm:"not null;uniqueIndex:idx_proposal_location" json:"location_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewProposal struct {
	Name       string     `json:"name" binding:"required"`
	CompanyId  int        `json:"company_id" binding:"required"`
	ValidUntil *time.Time `json:"valid_until"`
	Notes      *string    `json:"notes"`
}

func (input *NewProposal) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Proposal](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Company](ctx, input.CompanyId); err != nil {
		return err
	}
	return nil
}

func CreateProposal(ctx context.Context, input *NewProposal) (*Proposal, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	createdBy, _ := utils.GetRequestUserFromContext(ctx)
	proposal := Proposal{
		Name:       input.Name,
		CompanyId:  input.CompanyId,
		Status:     ProposalStatusDraft,
		ValidUntil: input.ValidUntil,
		Notes:      input.Notes,
		CreatedBy:  createdBy,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&proposal).Error
	if err != nil {
		return nil, err
	}

	return &proposal, nil
}

func UpdateProposal(ctx context.Context, id int, input *NewProposal) (*Proposal, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	proposal, err := utils.FetchModel[Proposal](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&proposal).Updates(map[string]interface{}{
		"Name":       input.Name,
		"CompanyId":  input.CompanyId,
		"ValidUntil": input.ValidUntil,
		"Notes":      input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

func UpdateProposalStatus(ctx context.Context, id int, status ProposalStatus) (*Proposal, error) {

	if err := status.Validate(); err != nil {
		return nil, err
	}
	proposal, err := utils.FetchModel[Proposal](ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status == ProposalStatusApproved && status != ProposalStatusApproved {
		return nil, errors.New("approved proposal cannot be reopened")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&proposal).Update("Status", status).Error
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

func DeleteProposal(ctx context.Context, id int) (*Proposal, error) {

	proposal, err := utils.FetchModel[Proposal](ctx, id)
	if err != nil {
		return nil, err
	}

	// capture attached locations before the links disappear
	db := config.GetDB()
	var locationIds []int
	if err := db.WithContext(ctx).Model(&ProposalLocation{}).
		Where("proposal_id = ?", id).
		Pluck("location_id", &locationIds).Error; err != nil {
		return nil, err
	}

	// db action
	if err := db.WithContext(ctx).Where("proposal_id = ?", id).Delete(&ProposalCircuit{}).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Where("proposal_id = ?", id).Delete(&ProposalLocation{}).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&proposal).Error; err != nil {
		return nil, err
	}

	utils.RemoveRedisList[Location](fmt.Sprint(id))
	for _, locationId := range locationIds {
		PublishProposalCircuitsChanged(ctx, id, locationId)
	}
	return proposal, nil
}

func GetProposal(ctx context.Context, id int) (*Proposal, error) {
	return utils.FetchModel[Proposal](ctx, id, "Company")
}

func GetProposals(ctx context.Context, companyId int, status string) ([]*Proposal, error) {

	db := config.GetDB()
	var results []*Proposal

	dbCtx := db.WithContext(ctx).Preload("Company")
	if companyId > 0 {
		dbCtx = dbCtx.Where("company_id = ?", companyId)
	}
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	err := dbCtx.Order("updated_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AttachProposalLocation adds a location to a proposal's scope.
// The location must belong to the proposal's company.
func AttachProposalLocation(ctx context.Context, proposalId int, locationId int) (*ProposalLocation, error) {

	proposal, err := utils.FetchModel[Proposal](ctx, proposalId)
	if err != nil {
		return nil, err
	}
	location, err := utils.FetchModel[Location](ctx, locationId)
	if err != nil {
		return nil, err
	}
	if location.CompanyId != proposal.CompanyId {
		return nil, errors.New("location does not belong to the proposal's company")
	}

	link := ProposalLocation{
		ProposalId: proposalId,
		LocationId: locationId,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, err
	}
	utils.RemoveRedisList[Location](fmt.Sprint(proposalId))
	return &link, nil
}

func DetachProposalLocation(ctx context.Context, proposalId int, locationId int) error {

	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("proposal_id = ? AND location_id = ?", proposalId, locationId).
		Delete(&ProposalCircuit{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("proposal_id = ? AND location_id = ?", proposalId, locationId).
		Delete(&ProposalLocation{}).Error; err != nil {
		return err
	}
	utils.RemoveRedisList[Location](fmt.Sprint(proposalId))
	PublishProposalCircuitsChanged(ctx, proposalId, locationId)
	return nil
}

func GetProposalLocations(ctx context.Context, proposalId int) ([]*Location, error) {

	ownerKey := fmt.Sprint(proposalId)
	if cached, err := utils.RetrieveRedisList[Location](ownerKey); err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var locationIds []int
	if err := db.WithContext(ctx).Model(&ProposalLocation{}).
		Where("proposal_id = ?", proposalId).
		Pluck("location_id", &locationIds).Error; err != nil {
		return nil, err
	}
	if len(locationIds) == 0 {
		return []*Location{}, nil
	}

	var locations []*Location
	if err := db.WithContext(ctx).Preload("Company").
		Where("id IN ?", locationIds).Order("name").Find(&locations).Error; err != nil {
		return nil, err
	}
	utils.StoreRedisList[Location](locations, ownerKey)
	return locations, nil
}
