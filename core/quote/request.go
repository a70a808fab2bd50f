package quote

import (
	"strconv"
	"strings"

	"audit-quote/internal/errors"
)

// DefaultLinesOfCode is what input fields display initially. It is never
// substituted for missing or invalid input.
const DefaultLinesOfCode = 1000

// NewRequest builds a validated Request.
func NewRequest(linesOfCode int64, complexity Complexity, scope Scope) (Request, error) {
	req := Request{
		LinesOfCode: linesOfCode,
		Complexity:  complexity,
		Scope:       scope,
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ParseRequest turns raw form values into a Request. The line count must be
// a positive base-10 integer; categories are trimmed but never rejected.
func ParseRequest(linesOfCode, complexity, scope string) (Request, error) {
	loc, err := ParseLinesOfCode(linesOfCode)
	if err != nil {
		return Request{}, err
	}
	return NewRequest(loc, ParseComplexity(complexity), ParseScope(scope))
}

// ParseLinesOfCode parses a raw line count.
func ParseLinesOfCode(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.Input("please enter a valid number of lines of code")
	}

	loc, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.TypeInput, err, "lines of code %q is not a whole number", s)
	}
	if loc <= 0 {
		return 0, errors.Inputf("lines of code must be a positive integer, got %d", loc)
	}
	return loc, nil
}

// ParseComplexity trims whitespace. Case is kept.
func ParseComplexity(raw string) Complexity {
	return Complexity(normalizeKey(raw))
}

// ParseScope trims whitespace. Case is kept.
func ParseScope(raw string) Scope {
	return Scope(normalizeKey(raw))
}
