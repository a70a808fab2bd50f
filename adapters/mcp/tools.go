package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"audit-quote/adapters/hclbatch"
	"audit-quote/core/output"
	"audit-quote/core/quote"
)

// Tool names
const (
	ToolEstimate = "audit_quote_estimate"
	ToolBatch    = "audit_quote_batch"
	ToolCatalog  = "audit_quote_catalog"
)

// registerTools registers every quote tool on s.
func registerTools(s *server.MCPServer, version string) {
	s.AddTool(
		mcplib.NewTool(ToolEstimate,
			mcplib.WithDescription("Estimate the price in USD and delivery time in days of a smart contract security audit"),
			mcplib.WithNumber("lines_of_code",
				mcplib.Required(),
				mcplib.Description("Positive whole number of Solidity lines to audit"),
			),
			mcplib.WithString("complexity",
				mcplib.Description("simple, medium, complex or very_complex (default: medium)"),
			),
			mcplib.WithString("scope",
				mcplib.Description("token, nft_collection, defi_protocol, dao, bridge or full_suite (default: token)"),
			),
		),
		handleEstimate(),
	)

	s.AddTool(
		mcplib.NewTool(ToolBatch,
			mcplib.WithDescription("Quote several projects at once from an HCL batch document of project blocks"),
			mcplib.WithString("source",
				mcplib.Required(),
				mcplib.Description(`HCL text, e.g. project "vault" { lines_of_code = 4200  scope = "defi_protocol" }`),
			),
			mcplib.WithString("format",
				mcplib.Description("json or markdown (default: json)"),
			),
		),
		handleBatch(version),
	)

	s.AddTool(
		mcplib.NewTool(ToolCatalog,
			mcplib.WithDescription("List complexity levels, scopes, multipliers and service packages"),
		),
		handleCatalog(),
	)
}

func handleEstimate() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		loc, err := request.RequireFloat("lines_of_code")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if loc != math.Trunc(loc) {
			return errorResult(fmt.Sprintf("lines_of_code must be a whole number, got %v", loc)), nil
		}
		if loc < 1 || loc > quote.MaxLinesOfCode {
			return errorResult(fmt.Sprintf("lines_of_code must be between 1 and %d, got %v", int64(quote.MaxLinesOfCode), loc)), nil
		}

		req, err := quote.NewRequest(
			int64(loc),
			quote.ParseComplexity(request.GetString("complexity", string(quote.ComplexityMedium))),
			quote.ParseScope(request.GetString("scope", string(quote.ScopeToken))),
		)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		res, err := quote.Estimate(req)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(res)
	}
}

func handleBatch(version string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		src, err := request.RequireString("source")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		format := output.Format(request.GetString("format", string(output.FormatJSON)))
		if format != output.FormatJSON && format != output.FormatMarkdown {
			return errorResult(fmt.Sprintf("format must be json or markdown, got %q", format)), nil
		}

		projects, err := hclbatch.Parse([]byte(src), "batch.hcl")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		quotes, err := hclbatch.Estimate(ctx, projects)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		items := make([]output.Item, len(quotes))
		for i, q := range quotes {
			items[i] = output.Item{Name: q.Project.Name, Result: q.Result}
		}
		report, err := output.NewReport(items, version, "mcp", time.Now())
		if err != nil {
			return errorResult(err.Error()), nil
		}

		if format == output.FormatJSON {
			return jsonResult(report)
		}
		return renderResult(report, &output.MarkdownFormatter{ShowTimeline: true})
	}
}

func handleCatalog() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(newCatalog())
	}
}

// catalog is the payload of the catalog tool and resource
type catalog struct {
	Complexities       []quote.Option  `json:"complexities"`
	Scopes             []quote.Option  `json:"scopes"`
	Packages           []quote.Package `json:"packages"`
	DefaultLinesOfCode int64           `json:"default_lines_of_code"`
	PricePer100LOC     int64           `json:"price_per_100_loc"`
}

func newCatalog() catalog {
	return catalog{
		Complexities:       quote.ComplexityOptions(),
		Scopes:             quote.ScopeOptions(),
		Packages:           quote.Packages(),
		DefaultLinesOfCode: quote.DefaultLinesOfCode,
		PricePer100LOC:     quote.PricePer100LOC,
	}
}

// jsonResult marshals v into a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func renderResult(r *output.Report, f output.Formatter) (*mcplib.CallToolResult, error) {
	var buf strings.Builder
	if err := f.Render(&buf, r); err != nil {
		return errorResult(err.Error()), nil
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(buf.String())},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
