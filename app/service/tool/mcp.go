package tool

import (
	"biosearch/app/graph/query"
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	argLeftAttribute  = "left_attribute"
	argLeftValue      = "left_value"
	argLeftReference  = "left_reference"
	argRightAttribute = "right_attribute"
	argRightValue     = "right_value"
	argRightReference = "right_reference"
	argRelationship   = "relationship"
)

func NewMCPServer(t *SearchTool, version string) *server.MCPServer {
	s := server.NewMCPServer("biosearch", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(Name,
		mcp.WithDescription("Search the sample registry graph for samples and their relationships."),
		mcp.WithString(argLeftAttribute, mcp.Description("Attribute of the left sample, e.g. organism")),
		mcp.WithString(argLeftValue, mcp.Description("Value of the left sample attribute, e.g. Homo sapiens")),
		mcp.WithString(argLeftReference, mcp.Description("Archive the left sample is referenced in, e.g. ENA")),
		mcp.WithString(argRightAttribute, mcp.Description("Attribute of the right sample")),
		mcp.WithString(argRightValue, mcp.Description("Value of the right sample attribute")),
		mcp.WithString(argRightReference, mcp.Description("Archive the right sample is referenced in")),
		mcp.WithString(argRelationship, mcp.Description("Relationship from left to right, e.g. DERIVED_FROM")),
	), t.handleMCP)

	return s
}

func (t *SearchTool) handleMCP(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := query.Input{
		Left: query.Side{
			Attribute: req.GetString(argLeftAttribute, ""),
			Value:     req.GetString(argLeftValue, ""),
			Reference: req.GetString(argLeftReference, ""),
		},
		Right: query.Side{
			Attribute: req.GetString(argRightAttribute, ""),
			Value:     req.GetString(argRightValue, ""),
			Reference: req.GetString(argRightReference, ""),
		},
		Relationship: req.GetString(argRelationship, ""),
	}

	text, err := t.Run(ctx, in)
	if err != nil {
		slog.Warn("MCP graph search failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(text), nil
}
