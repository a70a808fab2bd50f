package hclbatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audit-quote/core/quote"
	"audit-quote/internal/errors"
)

const sampleBatch = `
defaults {
  complexity = "complex"
}

project "vault" {
  lines_of_code = 4200
  scope         = "defi_protocol"
}

project "token" {
  lines_of_code = 1000
  complexity    = " medium "
  scope         = "token"
}

project "bridge" {
  lines_of_code = 5000 * 1
  complexity    = "very_complex"
  scope         = "bridge"
}
`

func TestParse(t *testing.T) {
	projects, err := Parse([]byte(sampleBatch), "batch.hcl")
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, "vault", projects[0].Name)
	assert.Equal(t, quote.Request{LinesOfCode: 4200, Complexity: quote.ComplexityComplex, Scope: quote.ScopeDeFiProtocol}, projects[0].Request)
	assert.Equal(t, 6, projects[0].SourceLine)
	assert.Equal(t, "batch.hcl", projects[0].SourceFile)

	assert.Equal(t, quote.ComplexityMedium, projects[1].Request.Complexity)
	assert.Equal(t, int64(5000), projects[2].Request.LinesOfCode)
}

func TestParseAppliesBuiltInDefaults(t *testing.T) {
	projects, err := Parse([]byte(`project "x" { lines_of_code = 800 }`), "x.hcl")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, DefaultComplexity, projects[0].Request.Complexity)
	assert.Equal(t, DefaultScope, projects[0].Request.Scope)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		errType errors.Type
		contain string
	}{
		{
			name:    "syntax",
			src:     "project \"x\" {\n  lines_of_code = \n}",
			errType: errors.TypeParsing,
			contain: "x.hcl:",
		},
		{
			name:    "missing lines",
			src:     `project "x" { scope = "dao" }`,
			errType: errors.TypeParsing,
			contain: "lines_of_code",
		},
		{
			name:    "unknown attribute",
			src:     "project \"x\" {\n  lines_of_code = 10\n  owner = \"me\"\n}",
			errType: errors.TypeParsing,
			contain: "owner",
		},
		{
			name:    "fractional lines",
			src:     `project "x" { lines_of_code = 10.5 }`,
			errType: errors.TypeInput,
			contain: "whole number",
		},
		{
			name:    "non numeric lines",
			src:     `project "x" { lines_of_code = "many" }`,
			errType: errors.TypeInput,
			contain: "must be a number",
		},
		{
			name:    "zero lines",
			src:     `project "x" { lines_of_code = 0 }`,
			errType: errors.TypeInput,
			contain: "x.hcl:1",
		},
		{
			name:    "duplicate",
			src:     "project \"x\" { lines_of_code = 1 }\nproject \"x\" { lines_of_code = 2 }",
			errType: errors.TypeInput,
			contain: "duplicate project",
		},
		{
			name:    "empty file",
			src:     "",
			errType: errors.TypeInput,
			contain: "no project blocks",
		},
		{
			name:    "late defaults",
			src:     "project \"x\" { lines_of_code = 1 }\ndefaults { scope = \"dao\" }",
			errType: errors.TypeInput,
			contain: "precede",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "x.hcl")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
			assert.Contains(t, err.Error(), tt.contain)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audits.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0o600))

	projects, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, projects, 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.True(t, errors.IsInvalidInput(err))
}

func TestEstimateKeepsOrder(t *testing.T) {
	projects, err := Parse([]byte(sampleBatch), "batch.hcl")
	require.NoError(t, err)

	quotes, err := Estimate(context.Background(), projects)
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	for i, q := range quotes {
		assert.Equal(t, projects[i].Name, q.Project.Name)
		want, err := quote.Estimate(projects[i].Request)
		require.NoError(t, err)
		assert.Equal(t, want.TotalPrice, q.Result.TotalPrice)
	}
	assert.Equal(t, int64(10000), quotes[2].Result.TotalPrice)
	assert.Equal(t, 34, quotes[2].Result.EstimatedDays)
}

func TestEstimateFailsWithoutPartialResults(t *testing.T) {
	projects := []Project{
		{Name: "ok", Request: quote.Request{LinesOfCode: 100}},
		{Name: "bad", Request: quote.Request{LinesOfCode: -1}},
	}

	quotes, err := Estimate(context.Background(), projects)
	require.Error(t, err)
	assert.Nil(t, quotes)
	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "bad", e.Context["project"])
}
