package quote

// Tier names a service package.
type Tier string

const (
	TierBasic    Tier = "basic"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// Package band boundaries in USD.
const (
	standardFloor = 4000
	premiumFloor  = 12000
)

// Package describes what a service tier includes.
type Package struct {
	Tier          Tier     `json:"tier"`
	Name          string   `json:"name"`
	PriceRange    string   `json:"price_range"`
	MinPrice      int64    `json:"min_price"`
	MaxPrice      int64    `json:"max_price,omitempty"` // 0 = open ended
	ReAudits      int      `json:"re_audits"`
	ManualAudit   string   `json:"manual_audit"`
	FuzzTesting   bool     `json:"fuzz_testing"`
	ProxyReview   bool     `json:"proxy_review"`
	EconomicModel bool     `json:"economic_model"`
	MEVFlashloan  string   `json:"mev_flashloan"`
	SuitableFor   []string `json:"suitable_for"`
}

// Packages returns every tier, cheapest first.
func Packages() []Package {
	return []Package{
		packageFor(TierBasic),
		packageFor(TierStandard),
		packageFor(TierPremium),
	}
}

// RecommendPackage picks the tier whose band contains totalPrice. Prices
// below the basic floor still map to basic.
func RecommendPackage(totalPrice int64) Package {
	switch {
	case totalPrice < standardFloor:
		return packageFor(TierBasic)
	case totalPrice < premiumFloor:
		return packageFor(TierStandard)
	default:
		return packageFor(TierPremium)
	}
}

func packageFor(t Tier) Package {
	switch t {
	case TierBasic:
		return Package{
			Tier:         TierBasic,
			Name:         "Basic",
			PriceRange:   "$1,000 – $4,000",
			MinPrice:     1000,
			MaxPrice:     standardFloor,
			ReAudits:     1,
			ManualAudit:  "basic",
			MEVFlashloan: "none",
			SuitableFor:  []string{"ERC20 tokens", "simple NFT collections", "small utility contracts"},
		}
	case TierStandard:
		return Package{
			Tier:         TierStandard,
			Name:         "Standard",
			PriceRange:   "$4,000 – $12,000",
			MinPrice:     standardFloor,
			MaxPrice:     premiumFloor,
			ReAudits:     1,
			ManualAudit:  "full",
			FuzzTesting:  true,
			ProxyReview:  true,
			MEVFlashloan: "partial",
			SuitableFor:  []string{"DeFi protocols", "staking and vaults", "upgradeable systems"},
		}
	default:
		return Package{
			Tier:          TierPremium,
			Name:          "Premium",
			PriceRange:    "$12,000 – $50,000+",
			MinPrice:      premiumFloor,
			ReAudits:      2,
			ManualAudit:   "multi-auditor",
			FuzzTesting:   true,
			ProxyReview:   true,
			EconomicModel: true,
			MEVFlashloan:  "full",
			SuitableFor:   []string{"bridges", "layer 2 protocols", "lending markets", "multi-contract suites"},
		}
	}
}
