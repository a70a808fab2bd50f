package quote

import "strings"

// Complexity is the coarse bucket describing how intricate the audited code is.
// Values outside the closed set are representable and resolve through the
// default arm of every lookup.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityMedium      Complexity = "medium"
	ComplexityComplex     Complexity = "complex"
	ComplexityVeryComplex Complexity = "very_complex"
)

// Scope is the breadth of the system under review.
type Scope string

const (
	ScopeToken         Scope = "token"
	ScopeNFTCollection Scope = "nft_collection"
	ScopeDeFiProtocol  Scope = "defi_protocol"
	ScopeDAO           Scope = "dao"
	ScopeBridge        Scope = "bridge"
	ScopeFullSuite     Scope = "full_suite"
)

// Fallbacks for categories outside the closed sets.
const (
	DefaultMultiplier = 1.0
	DefaultLOCPerDay  = 450
)

// Multiplier returns the price multiplier for the complexity.
func (c Complexity) Multiplier() float64 {
	switch c {
	case ComplexitySimple:
		return 0.8
	case ComplexityMedium:
		return 1.0
	case ComplexityComplex:
		return 1.5
	case ComplexityVeryComplex:
		return 2.0
	default:
		return DefaultMultiplier
	}
}

// LOCPerDay returns reviewer throughput in lines per business day.
// The fallback is 450, not the medium value.
func (c Complexity) LOCPerDay() int {
	switch c {
	case ComplexitySimple:
		return 800
	case ComplexityMedium:
		return 600
	case ComplexityComplex:
		return 450
	case ComplexityVeryComplex:
		return 350
	default:
		return DefaultLOCPerDay
	}
}

// Known reports whether c belongs to the closed set.
func (c Complexity) Known() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityVeryComplex:
		return true
	}
	return false
}

// Label is the human-readable selector text.
func (c Complexity) Label() string {
	switch c {
	case ComplexitySimple:
		return "Simple - Basic token/ERC20 contracts"
	case ComplexityMedium:
		return "Medium - Standard DeFi protocols"
	case ComplexityComplex:
		return "Complex - Advanced protocols with multiple components"
	case ComplexityVeryComplex:
		return "Very Complex - Layer 2 protocols, bridges, complex systems"
	default:
		return string(c)
	}
}

// Multiplier returns the price multiplier for the scope.
func (s Scope) Multiplier() float64 {
	switch s {
	case ScopeToken:
		return 1.0
	case ScopeNFTCollection:
		return 1.2
	case ScopeDAO:
		return 1.5
	case ScopeDeFiProtocol:
		return 1.8
	case ScopeBridge:
		return 2.0
	case ScopeFullSuite:
		return 2.5
	default:
		return DefaultMultiplier
	}
}

// Known reports whether s belongs to the closed set.
func (s Scope) Known() bool {
	switch s {
	case ScopeToken, ScopeNFTCollection, ScopeDeFiProtocol, ScopeDAO, ScopeBridge, ScopeFullSuite:
		return true
	}
	return false
}

// Label is the human-readable selector text.
func (s Scope) Label() string {
	switch s {
	case ScopeToken:
		return "Token Contract Only"
	case ScopeNFTCollection:
		return "NFT Collection"
	case ScopeDeFiProtocol:
		return "DeFi Protocol"
	case ScopeDAO:
		return "DAO Governance"
	case ScopeBridge:
		return "Bridge Protocol"
	case ScopeFullSuite:
		return "Full Suite (Multiple Contracts)"
	default:
		return string(s)
	}
}

// Option is one entry of a selector.
type Option struct {
	Value      string  `json:"value"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
	LOCPerDay  int     `json:"loc_per_day,omitempty"`
}

// Complexities returns the closed complexity set in display order.
func Complexities() []Complexity {
	return []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityVeryComplex}
}

// Scopes returns the closed scope set in display order.
func Scopes() []Scope {
	return []Scope{ScopeToken, ScopeNFTCollection, ScopeDeFiProtocol, ScopeDAO, ScopeBridge, ScopeFullSuite}
}

// ComplexityOptions returns selector entries for every complexity.
func ComplexityOptions() []Option {
	opts := make([]Option, 0, 4)
	for _, c := range Complexities() {
		opts = append(opts, Option{
			Value:      string(c),
			Label:      c.Label(),
			Multiplier: c.Multiplier(),
			LOCPerDay:  c.LOCPerDay(),
		})
	}
	return opts
}

// ScopeOptions returns selector entries for every scope.
func ScopeOptions() []Option {
	opts := make([]Option, 0, 6)
	for _, s := range Scopes() {
		opts = append(opts, Option{
			Value:      string(s),
			Label:      s.Label(),
			Multiplier: s.Multiplier(),
		})
	}
	return opts
}

// normalizeKey trims surrounding whitespace. Keys are case sensitive, so
// "Medium" is an unknown complexity.
func normalizeKey(s string) string {
	return strings.TrimSpace(s)
}
