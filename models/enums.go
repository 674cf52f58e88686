package models

import "errors"

type LocationCriticality string

const (
	LocationCriticalityHigh   LocationCriticality = "High"
	LocationCriticalityMedium LocationCriticality = "Medium"
	LocationCriticalityLow    LocationCriticality = "Low"
)

func (t LocationCriticality) Validate() error {
	switch t {
	case LocationCriticalityHigh, LocationCriticalityMedium, LocationCriticalityLow:
		return nil
	}
	return errors.New("invalid criticality")
}

type CircuitType string

const (
	CircuitTypeMPLS      CircuitType = "MPLS"
	CircuitTypeDIA       CircuitType = "DIA"
	CircuitTypeBroadband CircuitType = "Broadband"
)

func (t CircuitType) Validate() error {
	switch t {
	case CircuitTypeMPLS, CircuitTypeDIA, CircuitTypeBroadband:
		return nil
	}
	return errors.New("invalid circuit type")
}

type CircuitPurpose string

const (
	CircuitPurposePrimary   CircuitPurpose = "Primary"
	CircuitPurposeSecondary CircuitPurpose = "Secondary"
	CircuitPurposeBackup    CircuitPurpose = "Backup"
)

func (t CircuitPurpose) Validate() error {
	switch t {
	case CircuitPurposePrimary, CircuitPurposeSecondary, CircuitPurposeBackup:
		return nil
	}
	return errors.New("invalid circuit purpose")
}

type CircuitStatus string

const (
	CircuitStatusActive   CircuitStatus = "Active"
	CircuitStatusInactive CircuitStatus = "Inactive"
	CircuitStatusQuoted   CircuitStatus = "Quoted"
)

func (t CircuitStatus) Validate() error {
	switch t {
	case CircuitStatusActive, CircuitStatusInactive, CircuitStatusQuoted:
		return nil
	}
	return errors.New("invalid circuit status")
}

type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "Monthly"
	BillingCycleQuarterly BillingCycle = "Quarterly"
	BillingCycleAnnually  BillingCycle = "Annually"
)

func (t BillingCycle) Validate() error {
	switch t {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleAnnually:
		return nil
	}
	return errors.New("invalid billing cycle")
}

type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "Draft"
	ProposalStatusPending  ProposalStatus = "Pending"
	ProposalStatusApproved ProposalStatus = "Approved"
	ProposalStatusRejected ProposalStatus = "Rejected"
)

func (t ProposalStatus) Validate() error {
	switch t {
	case ProposalStatusDraft, ProposalStatusPending, ProposalStatusApproved, ProposalStatusRejected:
		return nil
	}
	return errors.New("invalid proposal status")
}
