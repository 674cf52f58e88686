package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/telcoflow/circuits_backend/config"
	"github.com/telcoflow/circuits_backend/models"
	"github.com/telcoflow/circuits_backend/utils"
)

// Seeds a demo company with a location, a handful of active circuits and a
// draft proposal so the differences endpoints have something to show.
func main() {
	companyName := flag.String("company", "Acme Logistics", "Name of the demo company to create")
	wipe := flag.Bool("wipe", false, "Delete an existing demo company of the same name first")
	flag.Parse()

	ctx := context.Background()
	// Explicit connects (config does not connect in init()).
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx = utils.SetRequestUserInContext(ctx, "SeedDemo")

	if *wipe {
		var existing models.Company
		if err := db.WithContext(ctx).Where("name = ?", *companyName).Take(&existing).Error; err == nil {
			locations, err := models.GetCompanyDependencies(ctx, existing.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to list locations: %v\n", err)
				os.Exit(1)
			}
			for _, location := range locations {
				if _, err := models.DeleteLocation(ctx, location.ID); err != nil {
					fmt.Fprintf(os.Stderr, "failed to delete location %d: %v\n", location.ID, err)
					os.Exit(1)
				}
			}
			if _, err := models.DeleteCompany(ctx, existing.ID); err != nil {
				fmt.Fprintf(os.Stderr, "failed to delete company %d: %v\n", existing.ID, err)
				os.Exit(1)
			}
			fmt.Printf("wiped existing company %q (id %d)\n", *companyName, existing.ID)
		}
		// stale cached views would otherwise survive the wipe
		if err := config.ClearRedis(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to clear redis: %v\n", err)
		}
	}

	company, err := models.CreateCompany(ctx, &models.NewCompany{
		Name:          *companyName,
		StreetAddress: "100 Main St",
		City:          "Columbus",
		State:         "OH",
		Zip:           "43004",
		Country:       "US",
		Email:         "noc@acme-logistics.example",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create company: %v\n", err)
		os.Exit(1)
	}

	location, err := models.CreateLocation(ctx, &models.NewLocation{
		CompanyId:   company.ID,
		Name:        "Columbus HQ",
		Address:     "100 Main St",
		City:        "Columbus",
		State:       "OH",
		Zip:         "43004",
		Country:     "US",
		Criticality: models.LocationCriticalityHigh,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create location: %v\n", err)
		os.Exit(1)
	}

	mpls, err := models.CreateCircuit(ctx, &models.NewCircuit{
		LocationId:       location.ID,
		Carrier:          "AT&T",
		Type:             models.CircuitTypeMPLS,
		Purpose:          models.CircuitPurposePrimary,
		Status:           models.CircuitStatusActive,
		Bandwidth:        "100 Mbps",
		MonthlyCost:      decimal.NewFromInt(2000),
		StaticIps:        8,
		ContractTerm:     36,
		Billing:          models.BillingCycleMonthly,
		UsageCharges:     utils.NewTrue(),
		InstallationCost: decimal.NewFromInt(1200),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create circuit: %v\n", err)
		os.Exit(1)
	}

	backup, err := models.CreateCircuit(ctx, &models.NewCircuit{
		LocationId:   location.ID,
		Carrier:      "Comcast",
		Type:         models.CircuitTypeBroadband,
		Purpose:      models.CircuitPurposeBackup,
		Status:       models.CircuitStatusActive,
		Bandwidth:    "300 Mbps",
		MonthlyCost:  decimal.NewFromInt(150),
		ContractTerm: 12,
		Billing:      models.BillingCycleMonthly,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create circuit: %v\n", err)
		os.Exit(1)
	}

	// Quoted replacement: not active yet, shows up only through the proposal.
	dia, err := models.CreateCircuit(ctx, &models.NewCircuit{
		LocationId:       location.ID,
		Carrier:          "Verizon",
		Type:             models.CircuitTypeDIA,
		Purpose:          models.CircuitPurposePrimary,
		Status:           models.CircuitStatusQuoted,
		Bandwidth:        "500 Mbps",
		MonthlyCost:      decimal.NewFromInt(1500),
		StaticIps:        16,
		ContractTerm:     24,
		Billing:          models.BillingCycleMonthly,
		InstallationCost: decimal.NewFromInt(500),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create circuit: %v\n", err)
		os.Exit(1)
	}

	validUntil := time.Now().AddDate(0, 3, 0)
	proposal, err := models.CreateProposal(ctx, &models.NewProposal{
		Name:       "FY27 network refresh",
		CompanyId:  company.ID,
		ValidUntil: &validUntil,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create proposal: %v\n", err)
		os.Exit(1)
	}
	if _, err := models.AttachProposalLocation(ctx, proposal.ID, location.ID); err != nil {
		fmt.Fprintf(os.Stderr, "failed to attach location: %v\n", err)
		os.Exit(1)
	}

	// Keep the backup circuit, swap the MPLS primary for the DIA quote on a
	// negotiated rate.
	negotiated := decimal.NewFromInt(1400)
	for _, input := range []*models.NewProposalCircuit{
		{CircuitId: backup.ID},
		{CircuitId: dia.ID, MonthlyCost: &negotiated},
	} {
		if _, err := models.ProposeCircuit(ctx, proposal.ID, input); err != nil {
			fmt.Fprintf(os.Stderr, "failed to propose circuit %d: %v\n", input.CircuitId, err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded company %d, location %d, circuits [%d %d %d], proposal %d\n",
		company.ID, location.ID, mpls.ID, backup.ID, dia.ID, proposal.ID)
	fmt.Printf("try: GET /proposals/%d/locations/%d/differences\n", proposal.ID, location.ID)
}
