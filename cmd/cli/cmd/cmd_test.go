package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"audit-quote/core/quote"
)

// executeCommand runs the root command with fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type reportJSON struct {
	Items []struct {
		Name   string `json:"name"`
		Result struct {
			TotalPrice    int64 `json:"total_price"`
			EstimatedDays int   `json:"estimated_days"`
		} `json:"result"`
	} `json:"items"`
	Summary struct {
		Projects   int   `json:"projects"`
		TotalPrice int64 `json:"total_price"`
	} `json:"summary"`
}

func decodeReport(t *testing.T, out string) reportJSON {
	t.Helper()
	var r reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "audit-quote version "+Version+"\n", out)
}

func TestEstimateFlags(t *testing.T) {
	out, err := executeCommand(t, "estimate", "--loc", "5000", "--complexity", "very_complex", "--scope", "bridge", "--format", "json")
	require.NoError(t, err)

	r := decodeReport(t, out)
	require.Len(t, r.Items, 1)
	assert.Equal(t, int64(10000), r.Items[0].Result.TotalPrice)
	assert.Equal(t, 34, r.Items[0].Result.EstimatedDays)
}

func TestEstimatePositional(t *testing.T) {
	out, err := executeCommand(t, "estimate", "1000", "--format", "json", "--name", "token")
	require.NoError(t, err)

	r := decodeReport(t, out)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "token", r.Items[0].Name)
	assert.Equal(t, int64(500), r.Items[0].Result.TotalPrice)
	assert.Equal(t, 5, r.Items[0].Result.EstimatedDays)
}

func TestEstimateMarkdown(t *testing.T) {
	out, err := executeCommand(t, "estimate", "--loc", "1000", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "$500")
	assert.Contains(t, out, "Basic")
}

func TestEstimateRejectsInvalidLines(t *testing.T) {
	for _, loc := range []string{"abc", "0", "-5", "10.5", ""} {
		t.Run(loc, func(t *testing.T) {
			_, err := executeCommand(t, "estimate", "--loc", loc, "--format", "json")
			assert.Error(t, err)
		})
	}
}

func TestEstimateUnknownFormat(t *testing.T) {
	_, err := executeCommand(t, "estimate", "--loc", "1000", "--format", "pdf")
	assert.Error(t, err)
}

func TestBinaryFormatNeedsOut(t *testing.T) {
	_, err := executeCommand(t, "estimate", "--loc", "1000", "--format", "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out")
}

func writeBatchFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.hcl")
	src := `
project "token" {
  lines_of_code = 1000
}

project "bridge" {
  lines_of_code = 5000
  complexity    = "very_complex"
  scope         = "bridge"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestBatchJSON(t *testing.T) {
	out, err := executeCommand(t, "batch", writeBatchFile(t), "--format", "json")
	require.NoError(t, err)

	r := decodeReport(t, out)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "token", r.Items[0].Name)
	assert.Equal(t, "bridge", r.Items[1].Name)
	assert.Equal(t, 2, r.Summary.Projects)
	assert.Equal(t, int64(10500), r.Summary.TotalPrice)
}

func TestBatchXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "quotes.xlsx")
	_, err := executeCommand(t, "batch", writeBatchFile(t), "--format", "xlsx", "--out", out)
	require.NoError(t, err)

	wb, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer wb.Close()

	name, err := wb.GetCellValue("Quotes", "A3")
	require.NoError(t, err)
	assert.Equal(t, "bridge", name)
}

func TestBatchMissingFile(t *testing.T) {
	_, err := executeCommand(t, "batch", filepath.Join(t.TempDir(), "missing.hcl"), "--format", "json")
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	out, err := executeCommand(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "very_complex")
	assert.Contains(t, out, "full_suite")
	assert.Contains(t, out, "Premium")
	assert.Contains(t, out, "800 LOC/day")

	out, err = executeCommand(t, "catalog", "--json")
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "project_types")
	assert.Contains(t, decoded, "packages")
}

func TestOptionsFor(t *testing.T) {
	opts := optionsFor(quote.ScopeOptions())
	require.Len(t, opts, 6)
	assert.Equal(t, "token", opts[0].Value)
	assert.Equal(t, "Token Contract Only (1.0x)", opts[0].Key)
}
