package model

// Project status constants.
const (
	StatusInProgress     = "In Progress"
	StatusProduction     = "Production"
	StatusDecommissioned = "Decommissioned"
)

// Cloud provider constants.
const (
	ProviderAWS         = "AWS"
	ProviderOVH         = "OVH"
	ProviderCloudAvenue = "CloudAvenue"
)
