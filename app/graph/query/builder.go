package query

import (
	"biosearch/app/graph"
	"strings"
)

const (
	LeftEntityID    = "a1"
	RightEntityID   = "a2"
	LeftExternalID  = "a3"
	RightExternalID = "a4"
)

type Side struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Reference string `json:"reference"`
}

type Input struct {
	Left         Side   `json:"left"`
	Right        Side   `json:"right"`
	Relationship string `json:"relationship"`
}

func (s Side) HasPair() bool {
	return s.Attribute != "" && s.Value != ""
}

func (s Side) HasReference() bool {
	return s.Reference != ""
}

// Constrained reports whether the side restricts the search at all.
// A bare external reference counts.
func (s Side) Constrained() bool {
	return s.HasPair() || s.HasReference()
}

func (s Side) normalize() Side {
	return Side{
		Attribute: strings.TrimSpace(s.Attribute),
		Value:     strings.TrimSpace(s.Value),
		Reference: strings.TrimSpace(s.Reference),
	}
}

func (in Input) Normalize() Input {
	return Input{
		Left:         in.Left.normalize(),
		Right:        in.Right.normalize(),
		Relationship: strings.TrimSpace(in.Relationship),
	}
}

func (in Input) Empty() bool {
	in = in.Normalize()
	return !in.Left.Constrained() && !in.Right.Constrained() && in.Relationship == ""
}

type sideIDs struct {
	entity   string
	external string
}

var (
	leftIDs  = sideIDs{entity: LeftEntityID, external: LeftExternalID}
	rightIDs = sideIDs{entity: RightEntityID, external: RightExternalID}
)

// Build assembles the graph query for the input. It never fails: an empty input
// yields an empty document.
func Build(in Input) graph.Document {
	in = in.Normalize()

	b := newBuilder()

	sides := []struct {
		side Side
		ids  sideIDs
	}{
		{in.Left, leftIDs},
		{in.Right, rightIDs},
	}

	for _, s := range sides {
		if s.side.HasPair() {
			b.addNode(s.ids.entity, graph.KindSample, map[string]any{s.side.Attribute: s.side.Value})
		}
	}

	related := in.Relationship != ""
	if related {
		b.addLink(graph.LinkType(in.Relationship), LeftEntityID, RightEntityID)
		b.ensureEntity(LeftEntityID)
		b.ensureEntity(RightEntityID)
	} else if in.Left.Constrained() && in.Right.Constrained() {
		b.addLink(graph.LinkAny, LeftEntityID, RightEntityID)
		b.ensureEntity(LeftEntityID)
		b.ensureEntity(RightEntityID)
	}

	for _, s := range sides {
		if !s.side.HasReference() {
			continue
		}

		b.addNode(s.ids.external, graph.KindExternalEntity, map[string]any{graph.AttrArchive: s.side.Reference})
		b.addLink(graph.LinkExternalReference, s.ids.entity, s.ids.external)
		b.ensureEntity(s.ids.entity)
	}

	return b.document()
}

var nodeOrder = []string{LeftEntityID, RightEntityID, LeftExternalID, RightExternalID}

type builder struct {
	nodes map[string]graph.Node
	links []graph.Link
}

func newBuilder() *builder {
	return &builder{nodes: make(map[string]graph.Node, len(nodeOrder))}
}

func (b *builder) addNode(id string, kind graph.NodeKind, attrs map[string]any) {
	if _, ok := b.nodes[id]; ok {
		return
	}

	b.nodes[id] = graph.Node{ID: id, Kind: kind, Attributes: attrs}
}

// ensureEntity adds an unconstrained sample node so a link has an endpoint.
func (b *builder) ensureEntity(id string) {
	b.addNode(id, graph.KindSample, map[string]any{})
}

func (b *builder) addLink(linkType graph.LinkType, source, target string) {
	b.links = append(b.links, graph.Link{Type: linkType, Source: source, Target: target})
}

func (b *builder) document() graph.Document {
	doc := graph.Document{
		Nodes: make([]graph.Node, 0, len(b.nodes)),
		Links: make([]graph.Link, 0, len(b.links)),
	}

	for _, id := range nodeOrder {
		if n, ok := b.nodes[id]; ok {
			doc.Nodes = append(doc.Nodes, n)
		}
	}

	doc.Links = append(doc.Links, b.links...)

	return doc
}
