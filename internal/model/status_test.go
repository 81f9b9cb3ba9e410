package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusConstants(t *testing.T) {
	assert.Equal(t, "In Progress", StatusInProgress)
	assert.Equal(t, "Production", StatusProduction)
	assert.Equal(t, "Decommissioned", StatusDecommissioned)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, "AWS", ProviderAWS)
	assert.Equal(t, "OVH", ProviderOVH)
	assert.Equal(t, "CloudAvenue", ProviderCloudAvenue)
}
