package quote

import (
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"audit-quote/internal/errors"
)

func genLinesOfCode() gopter.Gen {
	return gen.Int64Range(1, 5_000_000)
}

// genAnyLinesOfCode covers the whole positive int64 range, including counts
// too large to quote.
func genAnyLinesOfCode() gopter.Gen {
	return gen.Int64Range(1, math.MaxInt64)
}

func genComplexity() gopter.Gen {
	return gen.OneConstOf(ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityVeryComplex)
}

func genScope() gopter.Gen {
	return gen.OneConstOf(ScopeToken, ScopeNFTCollection, ScopeDeFiProtocol, ScopeDAO, ScopeBridge, ScopeFullSuite)
}

// TestEstimatorProperties checks the estimator over random inputs.
func TestEstimatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("estimated days never drop below the floor", prop.ForAll(
		func(loc int64, c Complexity, s Scope) bool {
			res, err := Estimate(Request{LinesOfCode: loc, Complexity: c, Scope: s})
			return err == nil && res.EstimatedDays >= MinimumDays
		},
		genLinesOfCode(), genComplexity(), genScope(),
	))

	properties.Property("price is monotonic in complexity", prop.ForAll(
		func(loc int64) bool {
			simple, err1 := Estimate(Request{LinesOfCode: loc, Complexity: ComplexitySimple, Scope: ScopeToken})
			hard, err2 := Estimate(Request{LinesOfCode: loc, Complexity: ComplexityVeryComplex, Scope: ScopeToken})
			return err1 == nil && err2 == nil && simple.TotalPrice < hard.TotalPrice
		},
		genLinesOfCode(),
	))

	properties.Property("price is monotonic in scope", prop.ForAll(
		func(loc int64) bool {
			token, err1 := Estimate(Request{LinesOfCode: loc, Complexity: ComplexityMedium, Scope: ScopeToken})
			bridge, err2 := Estimate(Request{LinesOfCode: loc, Complexity: ComplexityMedium, Scope: ScopeBridge})
			return err1 == nil && err2 == nil && token.TotalPrice < bridge.TotalPrice
		},
		genLinesOfCode(),
	))

	properties.Property("prices never wrap across the whole int64 range", prop.ForAll(
		func(loc int64) bool {
			simple, err1 := Estimate(Request{LinesOfCode: loc, Complexity: ComplexitySimple, Scope: ScopeToken})
			hard, err2 := Estimate(Request{LinesOfCode: loc, Complexity: ComplexityVeryComplex, Scope: ScopeFullSuite})
			if loc > MaxLinesOfCode {
				return simple == nil && hard == nil && errors.IsInvalidInput(err1) && errors.IsInvalidInput(err2)
			}
			return err1 == nil && err2 == nil &&
				simple.TotalPrice >= 0 &&
				simple.TotalPrice < hard.TotalPrice
		},
		genAnyLinesOfCode(),
	))

	properties.Property("base price is fifty dollars per hundred lines", prop.ForAll(
		func(loc int64, c Complexity, s Scope) bool {
			res, err := Estimate(Request{LinesOfCode: loc, Complexity: c, Scope: s})
			want := decimal.NewFromInt(loc).Div(decimal.NewFromInt(100)).Mul(decimal.NewFromInt(50))
			return err == nil && res.BasePrice.Equal(want)
		},
		genLinesOfCode(), genComplexity(), genScope(),
	))

	properties.Property("identical requests give identical results", prop.ForAll(
		func(loc int64, c Complexity, s Scope) bool {
			req := Request{LinesOfCode: loc, Complexity: c, Scope: s}
			a, err1 := Estimate(req)
			b, err2 := Estimate(req)
			return err1 == nil && err2 == nil && reflect.DeepEqual(a, b)
		},
		genLinesOfCode(), genComplexity(), genScope(),
	))

	properties.Property("non-positive line counts are rejected", prop.ForAll(
		func(loc int64) bool {
			res, err := Estimate(Request{LinesOfCode: loc, Complexity: ComplexityMedium, Scope: ScopeToken})
			return res == nil && errors.IsInvalidInput(err)
		},
		gen.Int64Range(-1_000_000, 0),
	))

	properties.Property("timeline phases add up", prop.ForAll(
		func(loc int64, c Complexity, s Scope) bool {
			tl := Schedule(loc, c, s)
			sum := tl.PreparationDays + tl.AdjustedAuditDays + tl.ReportingDays + tl.DeliveryDays
			return sum == tl.TotalDays &&
				tl.AdjustedAuditDays >= tl.AuditExecutionDays &&
				tl.ReportingDays >= 1
		},
		genLinesOfCode(), genComplexity(), genScope(),
	))

	properties.Property("package band contains the total price", prop.ForAll(
		func(loc int64, c Complexity, s Scope) bool {
			res, err := Estimate(Request{LinesOfCode: loc, Complexity: c, Scope: s})
			if err != nil {
				return false
			}
			p := res.Package
			if p.Tier == TierBasic {
				return res.TotalPrice < p.MaxPrice
			}
			return res.TotalPrice >= p.MinPrice && (p.MaxPrice == 0 || res.TotalPrice < p.MaxPrice)
		},
		genLinesOfCode(), genComplexity(), genScope(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
