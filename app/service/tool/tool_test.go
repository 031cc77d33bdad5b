package tool

import (
	"biosearch/app/client/biosamples"
	"biosearch/app/graph"
	"biosearch/app/graph/query"
	"biosearch/app/graph/result"
	"biosearch/app/service/search"
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendFunc func(ctx context.Context, doc graph.Document, page, size int) (*result.Response, error)

func (f backendFunc) Search(ctx context.Context, doc graph.Document, page, size int) (*result.Response, error) {
	return f(ctx, doc, page, size)
}

func relationshipResponse() *result.Response {
	return &result.Response{
		Nodes: []graph.Node{
			{ID: "1", Kind: graph.KindSample, Attributes: map[string]any{"accession": "SAMEA1", "name": "parent"}},
			{ID: "2", Kind: graph.KindSample, Attributes: map[string]any{"accession": "SAMEA2"}},
		},
		Links: []graph.Link{{Type: "DERIVED_FROM", Source: "2", Target: "1"}},
		Page:  result.Page{Number: 1, Size: 1, Total: 4},
	}
}

func newTool(t *testing.T, onDoc func(graph.Document)) *SearchTool {
	t.Helper()

	svc := search.NewService(backendFunc(func(_ context.Context, doc graph.Document, _, _ int) (*result.Response, error) {
		if onDoc != nil {
			onDoc(doc)
		}
		return relationshipResponse(), nil
	}), result.Reconciler{}, 10)

	return NewSearchTool(svc, "test")
}

func TestSearchToolCall(t *testing.T) {
	var got graph.Document
	tool := newTool(t, func(doc graph.Document) { got = doc })

	out, err := tool.Call(context.Background(), `{"left": {"attribute": "organism", "value": "Homo sapiens"}, "relationship": "DERIVED_FROM"}`)
	require.NoError(t, err)

	assert.Equal(t, "SAMEA2 -[DERIVED FROM]-> SAMEA1 (parent)\n(1 of 4 results)", out)
	require.Len(t, got.Links, 1)
	assert.Equal(t, graph.LinkType("DERIVED_FROM"), got.Links[0].Type)
}

func TestSearchToolCallInvalidJSON(t *testing.T) {
	_, err := newTool(t, nil).Call(context.Background(), `{not json`)
	assert.Error(t, err)
}

func TestSearchToolRejectsUnsafeRelationship(t *testing.T) {
	called := false
	tool := newTool(t, func(graph.Document) { called = true })

	_, err := tool.Call(context.Background(), `{"relationship": "X]-(b) DETACH DELETE b //"}`)
	assert.ErrorIs(t, err, query.ErrInvalidRelationship)

	req := mcp.CallToolRequest{}
	req.Params.Name = Name
	req.Params.Arguments = map[string]any{argRelationship: "SAME AS"}

	res, err := tool.handleMCP(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	assert.False(t, called)
}

func TestSearchToolMetadata(t *testing.T) {
	tool := newTool(t, nil)
	assert.Equal(t, Name, tool.Name())
	assert.Contains(t, tool.Description(), "JSON object")
}

func TestHandleMCP(t *testing.T) {
	var got graph.Document
	tool := newTool(t, func(doc graph.Document) { got = doc })

	req := mcp.CallToolRequest{}
	req.Params.Name = Name
	req.Params.Arguments = map[string]any{
		argLeftReference:  "ENA",
		argRightAttribute: "organism",
		argRightValue:     "Mus musculus",
	}

	res, err := tool.handleMCP(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "SAMEA2 -[DERIVED FROM]-> SAMEA1")

	_, ok = got.Node(query.LeftExternalID)
	assert.True(t, ok)
	assert.Equal(t, graph.LinkAny, got.Links[0].Type)
}

func TestHandleMCPError(t *testing.T) {
	svc := search.NewService(backendFunc(func(context.Context, graph.Document, int, int) (*result.Response, error) {
		return nil, &biosamples.TransportError{Status: 503, Message: "maintenance"}
	}), result.Reconciler{}, 10)

	res, err := NewSearchTool(svc, "test").handleMCP(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestFormatRows(t *testing.T) {
	assert.Equal(t, "No matches", FormatRows(nil, result.Page{}))

	rows := []result.Row{
		{Kind: result.RowEntity, Entity: &result.EntitySummary{Accession: "SAMEA1", Name: "liver"}},
		{Kind: result.RowEntity, Entity: &result.EntitySummary{Accession: "SAMEA2"}},
	}
	assert.Equal(t, "SAMEA1 (liver)\nSAMEA2", FormatRows(rows, result.Page{Total: 2}))
}
