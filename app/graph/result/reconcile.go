package result

import (
	"biosearch/app/graph"
	"log/slog"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/oops"
)

type EntitySummary struct {
	Accession string `json:"accession"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
}

type RowKind string

const (
	RowRelationship RowKind = "relationship"
	RowEntity       RowKind = "entity"
)

// Row is either a relationship (Source, Relation, Target) or a standalone entity.
type Row struct {
	Kind     RowKind        `json:"kind"`
	Source   *EntitySummary `json:"source,omitempty"`
	Relation graph.LinkType `json:"relation,omitempty"`
	Target   *EntitySummary `json:"target,omitempty"`
	Entity   *EntitySummary `json:"entity,omitempty"`
}

// Label is the relation as shown to users.
func (r Row) Label() string {
	return strings.ReplaceAll(string(r.Relation), "_", " ")
}

type Reconciler struct {
	// SamplesURL prefixes accessions to build entity links; empty disables links.
	SamplesURL string
}

func Reconcile(resp *Response) ([]Row, error) {
	return Reconciler{}.Reconcile(resp)
}

func (r Reconciler) Reconcile(resp *Response) ([]Row, error) {
	if resp == nil {
		return nil, oops.In("result").Code("malformed_response").Wrapf(ErrMalformedResponse, "nil response")
	}

	lookup := make(map[string]graph.Node, len(resp.Nodes))
	for _, n := range resp.Nodes {
		lookup[n.ID] = n
	}

	var relationshipLinks []graph.Link
	for i, l := range resp.Links {
		for _, id := range []string{l.Source, l.Target} {
			if _, ok := lookup[id]; !ok {
				err := &DanglingReferenceError{LinkIndex: i, NodeID: id}
				slog.Error("Graph search returned a dangling link",
					"link_index", i,
					"link_type", l.Type,
					"link_class", l.Type.Class().String(),
					"node_id", id,
				)
				return nil, oops.In("result").Code("dangling_reference").With("link_index", i).Wrap(err)
			}
		}

		switch l.Type.Class() {
		case graph.ClassRelationship, graph.ClassAny:
			relationshipLinks = append(relationshipLinks, l)
		case graph.ClassExternalReference:
			// not rendered yet
		}
	}

	if len(relationshipLinks) > 0 {
		rows := make([]Row, 0, len(relationshipLinks))
		for _, l := range relationshipLinks {
			source, err := r.summarize(lookup[l.Source])
			if err != nil {
				return nil, err
			}

			target, err := r.summarize(lookup[l.Target])
			if err != nil {
				return nil, err
			}

			rows = append(rows, Row{
				Kind:     RowRelationship,
				Source:   source,
				Relation: l.Type,
				Target:   target,
			})
		}

		return rows, nil
	}

	entities := pie.Filter(resp.Nodes, func(n graph.Node) bool {
		return !n.Kind.External()
	})

	rows := make([]Row, 0, len(entities))
	for _, n := range entities {
		entity, err := r.summarize(n)
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{Kind: RowEntity, Entity: entity})
	}

	return rows, nil
}

func (r Reconciler) summarize(n graph.Node) (*EntitySummary, error) {
	accession, ok := n.StringAttr(graph.AttrAccession)
	if !ok || accession == "" {
		slog.Error("Graph search returned a node without accession", "node_id", n.ID, "node_type", n.Kind)
		return nil, oops.In("result").
			Code("malformed_response").
			With("node_id", n.ID).
			Wrapf(ErrMalformedResponse, "node %s has no accession", n.ID)
	}

	name, _ := n.StringAttr(graph.AttrName)

	summary := &EntitySummary{Accession: accession, Name: name}
	if r.SamplesURL != "" {
		summary.URL = r.SamplesURL + accession
	}

	return summary, nil
}
