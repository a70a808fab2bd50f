// Package quote implements the audit pricing and timeline estimator.
//
// Estimate is a pure function: it performs no I/O, holds no state between
// calls and is safe for concurrent use. All lookup tables are expressed as
// exhaustive switches with explicit default arms.
package quote

import (
	"math"

	"github.com/shopspring/decimal"

	"audit-quote/internal/errors"
)

// Pricing and scheduling constants.
const (
	// PricePer100LOC is the base rate in USD per hundred lines of code.
	PricePer100LOC = 50

	// MaxLinesOfCode keeps the largest quote (2x complexity, 2.5x scope)
	// inside int64.
	MaxLinesOfCode = math.MaxInt64 / 4

	PreparationDays = 1
	DeliveryDays    = 1
	MinimumDays     = 3

	// scopeScheduleShare is the fraction of the scope premium that turns into calendar time.
	scopeScheduleShare = 0.15
	reportingShare     = 0.25
)

var (
	hundred    = decimal.NewFromInt(100)
	ratePer100 = decimal.NewFromInt(PricePer100LOC)
	maxPrice   = decimal.NewFromInt(math.MaxInt64)
)

func init() {
	// Prices are JSON numbers wherever a Result is serialized.
	decimal.MarshalJSONWithoutQuotes = true
}

// Request is a validated estimation input. Build it with NewRequest or
// ParseRequest; Estimate re-checks LinesOfCode regardless.
type Request struct {
	LinesOfCode int64      `json:"lines_of_code"`
	Complexity  Complexity `json:"complexity"`
	Scope       Scope      `json:"scope"`
}

// Validate rejects non-positive and oversized line counts. Unknown
// categories are legal.
func (r Request) Validate() error {
	if r.LinesOfCode <= 0 {
		return errors.Inputf("lines of code must be a positive integer, got %d", r.LinesOfCode).
			WithContext("lines_of_code", r.LinesOfCode)
	}
	if r.LinesOfCode > MaxLinesOfCode {
		return tooLarge(r.LinesOfCode)
	}
	return nil
}

func tooLarge(loc int64) error {
	return errors.Inputf("lines of code %d is too large to quote", loc).
		WithContext("lines_of_code", loc).
		WithContext("max_lines_of_code", int64(MaxLinesOfCode))
}

// Timeline is the per-phase schedule behind EstimatedDays.
type Timeline struct {
	LOCPerDay          int `json:"loc_per_day"`
	PreparationDays    int `json:"preparation_days"`
	AuditExecutionDays int `json:"audit_execution_days"`
	AdjustedAuditDays  int `json:"adjusted_audit_days"`
	ReportingDays      int `json:"reporting_days"`
	DeliveryDays       int `json:"delivery_days"`
	TotalDays          int `json:"total_days"`
}

// Result is the quote for a single Request.
type Result struct {
	Request              Request         `json:"request"`
	BasePrice            decimal.Decimal `json:"base_price"`
	ComplexityMultiplier float64         `json:"complexity_multiplier"`
	ScopeMultiplier      float64         `json:"scope_multiplier"`
	TotalPrice           int64           `json:"total_price"`
	EstimatedDays        int             `json:"estimated_days"`
	Timeline             Timeline        `json:"timeline"`
	Package              Package         `json:"package"`
}

// Estimate computes price and delivery time for req. The only failure is an
// input error for a line count outside 1..MaxLinesOfCode, in which case no
// result is returned. Prices round half to even, which keeps a single line
// of code at medium/token strictly cheaper than the same line at bridge
// scope.
func Estimate(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cm := req.Complexity.Multiplier()
	sm := req.Scope.Multiplier()

	base := BasePrice(req.LinesOfCode)
	rounded := base.
		Mul(decimal.NewFromFloat(cm)).
		Mul(decimal.NewFromFloat(sm)).
		RoundBank(0)
	if rounded.GreaterThan(maxPrice) {
		return nil, tooLarge(req.LinesOfCode)
	}
	total := rounded.IntPart()

	timeline := Schedule(req.LinesOfCode, req.Complexity, req.Scope)

	return &Result{
		Request:              req,
		BasePrice:            base,
		ComplexityMultiplier: cm,
		ScopeMultiplier:      sm,
		TotalPrice:           total,
		EstimatedDays:        max(timeline.TotalDays, MinimumDays),
		Timeline:             timeline,
		Package:              RecommendPackage(total),
	}, nil
}

// BasePrice is (loc / 100) * 50, exact.
func BasePrice(loc int64) decimal.Decimal {
	return decimal.NewFromInt(loc).Div(hundred).Mul(ratePer100)
}

// Schedule derives the phase breakdown. Complexity is damped by a square
// root and only part of the scope premium reaches the calendar.
func Schedule(loc int64, c Complexity, s Scope) Timeline {
	locPerDay := c.LOCPerDay()
	cm := c.Multiplier()
	sm := s.Multiplier()

	execution := int(math.Ceil((float64(loc) / float64(locPerDay)) * math.Sqrt(cm)))
	// explicit conversion keeps the multiply-add from being fused
	premium := float64((sm - 1) * scopeScheduleShare)
	adjusted := int(math.Ceil(float64(execution) * (1 + premium)))
	reporting := max(1, int(math.Ceil(float64(adjusted)*reportingShare)))

	return Timeline{
		LOCPerDay:          locPerDay,
		PreparationDays:    PreparationDays,
		AuditExecutionDays: execution,
		AdjustedAuditDays:  adjusted,
		ReportingDays:      reporting,
		DeliveryDays:       DeliveryDays,
		TotalDays:          PreparationDays + adjusted + reporting + DeliveryDays,
	}
}
