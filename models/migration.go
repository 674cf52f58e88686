package models

import (
	"log"

	"github.com/telcoflow/circuits_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Company{}, &Location{}, &Circuit{},
		&Proposal{}, &ProposalLocation{}, &ProposalCircuit{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
