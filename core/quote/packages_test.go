package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendPackageBoundaries(t *testing.T) {
	tests := []struct {
		price int64
		tier  Tier
	}{
		{0, TierBasic},
		{999, TierBasic},
		{3999, TierBasic},
		{4000, TierStandard},
		{11999, TierStandard},
		{12000, TierPremium},
		{250000, TierPremium},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, RecommendPackage(tt.price).Tier, "price %d", tt.price)
	}
}

func TestPackagesCatalog(t *testing.T) {
	pkgs := Packages()
	assert.Len(t, pkgs, 3)
	assert.Equal(t, []Tier{TierBasic, TierStandard, TierPremium},
		[]Tier{pkgs[0].Tier, pkgs[1].Tier, pkgs[2].Tier})

	premium := pkgs[2]
	assert.Equal(t, 2, premium.ReAudits)
	assert.True(t, premium.EconomicModel)
	assert.Zero(t, premium.MaxPrice)

	basic := pkgs[0]
	assert.False(t, basic.FuzzTesting)
	assert.Equal(t, "basic", basic.ManualAudit)
}
