package graph

type NodeKind string

const (
	KindSample         NodeKind = "Sample"
	KindExternalEntity NodeKind = "ExternalEntity"
)

// External reports whether nodes of this kind live in another archive.
func (k NodeKind) External() bool {
	return k == KindExternalEntity
}

// LinkClass is the closed set of link shapes. Every switch on it must handle all three.
type LinkClass uint8

const (
	ClassRelationship LinkClass = iota + 1
	ClassAny
	ClassExternalReference
)

func (c LinkClass) String() string {
	switch c {
	case ClassRelationship:
		return "relationship"
	case ClassAny:
		return "any"
	case ClassExternalReference:
		return "external_reference"
	}

	return "unknown"
}

type LinkType string

const (
	LinkAny               LinkType = "ANY"
	LinkExternalReference LinkType = "EXTERNAL_REFERENCE"
)

var KnownRelationships = []LinkType{
	"DERIVED_FROM",
	"SAME_AS",
	"HAS_MEMBER",
	"CHILD_OF",
}

func (t LinkType) Class() LinkClass {
	switch t {
	case LinkAny:
		return ClassAny
	case LinkExternalReference:
		return ClassExternalReference
	default:
		return ClassRelationship
	}
}

const (
	AttrAccession = "accession"
	AttrName      = "name"
	AttrArchive   = "archive"
)

type Node struct {
	ID         string         `json:"id"`
	Kind       NodeKind       `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

type Link struct {
	Type   LinkType `json:"type"`
	Source string   `json:"startNode"`
	Target string   `json:"endNode"`
}

// Document is a graph query: nodes are declared before any link refers to them.
type Document struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

func (d Document) Empty() bool {
	return len(d.Nodes) == 0 && len(d.Links) == 0
}

// Node returns the node with the given id.
func (d Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return Node{}, false
}

// StringAttr returns the attribute as a string; numbers and booleans are formatted.
func (n Node) StringAttr(key string) (string, bool) {
	v, ok := n.Attributes[key]
	if !ok || v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	default:
		return formatScalar(val)
	}
}
