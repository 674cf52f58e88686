package models

import (
	"context"
	"errors"
	"time"

	"github.com/telcoflow/circuits_backend/config"
	"github.com/telcoflow/circuits_backend/utils"
)

type Company struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name" binding:"required"`
	StreetAddress string    `gorm:"size:255" json:"street_address"`
	City          string    `gorm:"size:100;index" json:"city"`
	State         string    `gorm:"size:100;index" json:"state"`
	Zip           string    `gorm:"size:20" json:"zip"`
	Country       string    `gorm:"size:100" json:"country"`
	Phone         string    `gorm:"size:30" json:"phone"`
	Email         string    `gorm:"size:100" json:"email"`
	Website       string    `gorm:"size:255" json:"website"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name          string `json:"name" binding:"required"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Website       string `json:"website"`
}

type CompanyListFilter struct {
	Search string
	State  string
	City   string
}

// validate input for both create & update. (id = 0 for create)
func (input *NewCompany) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Company](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Company](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	return nil
}

func CreateCompany(ctx context.Context, input *NewCompany) (*Company, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	company := Company{
		Name:          input.Name,
		StreetAddress: input.StreetAddress,
		City:          input.City,
		State:         input.State,
		Zip:           input.Zip,
		Country:       input.Country,
		Phone:         input.Phone,
		Email:         input.Email,
		Website:       input.Website,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&company).Error
	if err != nil {
		return nil, err
	}

	return &company, nil
}

func UpdateCompany(ctx context.Context, id int, input *NewCompany) (*Company, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	company, err := utils.FetchModel[Company](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&company).Updates(map[string]interface{}{
		"Name":          input.Name,
		"StreetAddress": input.StreetAddress,
		"City":          input.City,
		"State":         input.State,
		"Zip":           input.Zip,
		"Country":       input.Country,
		"Phone":         input.Phone,
		"Email":         input.Email,
		"Website":       input.Website,
	}).Error
	if err != nil {
		return nil, err
	}
	return company, nil
}

func DeleteCompany(ctx context.Context, id int) (*Company, error) {

	company, err := utils.FetchModel[Company](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&company).Error
	if err != nil {
		return nil, err
	}

	return company, nil
}

func GetCompany(ctx context.Context, id int) (*Company, error) {
	return utils.FetchModel[Company](ctx, id)
}

func GetCompanies(ctx context.Context, filter *CompanyListFilter) ([]*Company, error) {

	db := config.GetDB()
	var results []*Company

	dbCtx := db.WithContext(ctx)
	if filter != nil {
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			dbCtx = dbCtx.Where("name LIKE ? OR city LIKE ? OR state LIKE ?", like, like, like).
				Limit(config.SearchLimit)
		}
		if filter.State != "" {
			dbCtx = dbCtx.Where("state = ?", filter.State)
		}
		if filter.City != "" {
			dbCtx = dbCtx.Where("city = ?", filter.City)
		}
	}
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetCompanyDependencies lists locations that would be deleted along with the company.
func GetCompanyDependencies(ctx context.Context, id int) ([]*Location, error) {

	db := config.GetDB()
	var locations []*Location
	err := db.WithContext(ctx).Where("company_id = ?", id).
		Select("id", "name", "city", "state").Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}
