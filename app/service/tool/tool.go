package tool

import (
	"biosearch/app/graph/query"
	"biosearch/app/graph/result"
	"biosearch/app/service/search"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/tools"
)

const (
	Name        = "biosamples_graph_search"
	Description = "Search the sample registry graph. Input must be a JSON object with optional fields " +
		"left and right (objects with attribute, value and reference strings) and relationship (string, " +
		"e.g. DERIVED_FROM, SAME_AS, HAS_MEMBER, CHILD_OF). Returns one line per result."

	sessionPrefix = "tool:"
)

var _ tools.Tool = (*SearchTool)(nil)

type SearchTool struct {
	searchSvc *search.Service
	session   string
}

func New(di *do.Injector) (*SearchTool, error) {
	return NewSearchTool(do.MustInvoke[*search.Service](di), "default"), nil
}

func NewSearchTool(searchSvc *search.Service, session string) *SearchTool {
	return &SearchTool{
		searchSvc: searchSvc,
		session:   sessionPrefix + session,
	}
}

func (t *SearchTool) Name() string {
	return Name
}

func (t *SearchTool) Description() string {
	return Description
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	var in query.Input

	input = strings.TrimSpace(input)
	if input != "" {
		if err := json.Unmarshal([]byte(input), &in); err != nil {
			return "", fmt.Errorf("invalid search JSON: %w", err)
		}
	}

	return t.Run(ctx, in)
}

func (t *SearchTool) Run(ctx context.Context, in query.Input) (string, error) {
	res, err := t.searchSvc.Search(ctx, t.session, in, 1)
	if err != nil {
		return "", err
	}

	return FormatRows(res.Rows, res.Page), nil
}

// FormatRows renders rows as plain text, one per line.
func FormatRows(rows []result.Row, page result.Page) string {
	if len(rows) == 0 {
		return "No matches"
	}

	var sb strings.Builder
	for _, row := range rows {
		switch row.Kind {
		case result.RowRelationship:
			fmt.Fprintf(&sb, "%s -[%s]-> %s\n", summary(row.Source), row.Label(), summary(row.Target))
		case result.RowEntity:
			fmt.Fprintf(&sb, "%s\n", summary(row.Entity))
		}
	}

	if page.Total > len(rows) {
		fmt.Fprintf(&sb, "(%d of %d results)\n", len(rows), page.Total)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func summary(e *result.EntitySummary) string {
	if e == nil {
		return "?"
	}
	if e.Name == "" {
		return e.Accession
	}

	return fmt.Sprintf("%s (%s)", e.Accession, e.Name)
}
