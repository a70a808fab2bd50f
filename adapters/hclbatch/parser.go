// Package hclbatch reads batch quote requests from HCL files.
//
// A batch file holds one "project" block per quote and an optional
// "defaults" block:
//
//	defaults {
//	  complexity = "complex"
//	}
//
//	project "vault" {
//	  lines_of_code = 4200
//	  scope         = "defi_protocol"
//	}
package hclbatch

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"audit-quote/core/quote"
	"audit-quote/internal/errors"
)

// Block and attribute names
const (
	blockProject  = "project"
	blockDefaults = "defaults"

	attrLinesOfCode = "lines_of_code"
	attrComplexity  = "complexity"
	attrScope       = "scope"
)

// Fallback categories when neither the project nor defaults name one.
const (
	DefaultComplexity = quote.ComplexityMedium
	DefaultScope      = quote.ScopeToken
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: blockProject, LabelNames: []string{"name"}},
		{Type: blockDefaults},
	},
}

var projectSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: attrLinesOfCode, Required: true},
		{Name: attrComplexity},
		{Name: attrScope},
	},
}

var defaultsSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: attrComplexity},
		{Name: attrScope},
	},
}

// Project is one named request from a batch file.
type Project struct {
	Name       string        `json:"name"`
	Request    quote.Request `json:"request"`
	SourceFile string        `json:"source_file"`
	SourceLine int           `json:"source_line"`
}

// ParseFile reads and parses a batch file.
func ParseFile(path string) ([]Project, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read batch file %s", path)
	}
	return Parse(src, path)
}

// Parse parses batch source. filename is used in diagnostics only.
func Parse(src []byte, filename string) ([]Project, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	complexity, scope := DefaultComplexity, DefaultScope
	var projects []Project
	seen := make(map[string]int)
	sawDefaults := false

	for _, block := range content.Blocks {
		switch block.Type {
		case blockDefaults:
			if sawDefaults {
				return nil, errors.Inputf("%s:%d: only one defaults block is allowed", filename, block.DefRange.Start.Line)
			}
			sawDefaults = true
			if len(projects) > 0 {
				return nil, errors.Inputf("%s:%d: defaults must precede project blocks", filename, block.DefRange.Start.Line)
			}
			c, s, err := parseDefaults(block)
			if err != nil {
				return nil, err
			}
			if c != "" {
				complexity = c
			}
			if s != "" {
				scope = s
			}

		case blockProject:
			name := strings.TrimSpace(block.Labels[0])
			line := block.DefRange.Start.Line
			if name == "" {
				return nil, errors.Inputf("%s:%d: project name must not be empty", filename, line)
			}
			if prev, ok := seen[name]; ok {
				return nil, errors.Inputf("%s:%d: duplicate project %q (first declared on line %d)", filename, line, name, prev)
			}
			seen[name] = line

			req, err := parseProject(block, complexity, scope)
			if err != nil {
				return nil, err
			}
			projects = append(projects, Project{
				Name:       name,
				Request:    req,
				SourceFile: filename,
				SourceLine: line,
			})
		}
	}

	if len(projects) == 0 {
		return nil, errors.Inputf("%s: no project blocks found", filename)
	}
	return projects, nil
}

func parseDefaults(block *hcl.Block) (quote.Complexity, quote.Scope, error) {
	content, diags := block.Body.Content(defaultsSchema)
	if diags.HasErrors() {
		return "", "", diagError(diags)
	}

	var complexity quote.Complexity
	var scope quote.Scope
	if attr, ok := content.Attributes[attrComplexity]; ok {
		v, err := stringAttr(attr)
		if err != nil {
			return "", "", err
		}
		complexity = quote.ParseComplexity(v)
	}
	if attr, ok := content.Attributes[attrScope]; ok {
		v, err := stringAttr(attr)
		if err != nil {
			return "", "", err
		}
		scope = quote.ParseScope(v)
	}
	return complexity, scope, nil
}

func parseProject(block *hcl.Block, complexity quote.Complexity, scope quote.Scope) (quote.Request, error) {
	content, diags := block.Body.Content(projectSchema)
	if diags.HasErrors() {
		return quote.Request{}, diagError(diags)
	}

	loc, err := intAttr(content.Attributes[attrLinesOfCode])
	if err != nil {
		return quote.Request{}, err
	}

	if attr, ok := content.Attributes[attrComplexity]; ok {
		v, err := stringAttr(attr)
		if err != nil {
			return quote.Request{}, err
		}
		complexity = quote.ParseComplexity(v)
	}
	if attr, ok := content.Attributes[attrScope]; ok {
		v, err := stringAttr(attr)
		if err != nil {
			return quote.Request{}, err
		}
		scope = quote.ParseScope(v)
	}

	req, err := quote.NewRequest(loc, complexity, scope)
	if err != nil {
		return quote.Request{}, withLocation(err, attrRange(content.Attributes[attrLinesOfCode]))
	}
	return req, nil
}

// evaluate resolves a constant expression. Batch files have no variables.
func evaluate(attr *hcl.Attribute) (cty.Value, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diagError(diags)
	}
	if val.IsNull() || !val.IsKnown() {
		return cty.NilVal, locatedInput(attr.Range, "%s must be set", attr.Name)
	}
	return val, nil
}

func intAttr(attr *hcl.Attribute) (int64, error) {
	val, err := evaluate(attr)
	if err != nil {
		return 0, err
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, locatedInput(attr.Range, "%s must be a number", attr.Name)
	}
	var out int64
	if err := gocty.FromCtyValue(num, &out); err != nil {
		return 0, locatedInput(attr.Range, "%s must be a whole number", attr.Name)
	}
	return out, nil
}

func stringAttr(attr *hcl.Attribute) (string, error) {
	val, err := evaluate(attr)
	if err != nil {
		return "", err
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", locatedInput(attr.Range, "%s must be a string", attr.Name)
	}
	var out string
	if err := gocty.FromCtyValue(str, &out); err != nil {
		return "", locatedInput(attr.Range, "%s must be a string", attr.Name)
	}
	return out, nil
}

func attrRange(attr *hcl.Attribute) hcl.Range {
	if attr == nil {
		return hcl.Range{}
	}
	return attr.Range
}

func locatedInput(rng hcl.Range, format string, args ...interface{}) *errors.Error {
	return errors.Inputf("%s: %s", location(rng), fmt.Sprintf(format, args...)).
		WithContext("file", rng.Filename).
		WithContext("line", rng.Start.Line)
}

func withLocation(err error, rng hcl.Range) error {
	if e, ok := errors.As(err); ok {
		return errors.Newf(e.Type, "%s: %s", location(rng), e.Message).
			WithContext("file", rng.Filename).
			WithContext("line", rng.Start.Line)
	}
	return fmt.Errorf("%s: %w", location(rng), err)
}

func location(rng hcl.Range) string {
	return fmt.Sprintf("%s:%d", rng.Filename, rng.Start.Line)
}

// diagError converts the first error diagnostic into a parsing error.
func diagError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		var rng hcl.Range
		if diag.Subject != nil {
			rng = *diag.Subject
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		return errors.Parsing(fmt.Sprintf("%s: %s", location(rng), msg), diags).
			WithContext("file", rng.Filename).
			WithContext("line", rng.Start.Line)
	}
	return errors.Parsing("invalid batch file", diags)
}
