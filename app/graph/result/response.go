package result

import (
	"biosearch/app/graph"
	"bytes"
	"encoding/json"

	"github.com/samber/oops"
)

type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
	Total  int `json:"total"`
}

// Response is the backend answer after wire normalization.
type Response struct {
	Nodes []graph.Node
	Links []graph.Link
	Page  Page
}

type currentBody struct {
	Nodes         *[]wireNode `json:"nodes"`
	Links         *[]wireLink `json:"links"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	Total         *int        `json:"total"`
	TotalElements *int        `json:"totalElements"`
}

type wireNode struct {
	ID         *string        `json:"id"`
	Type       *string        `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

type wireLink struct {
	Type      *string `json:"type"`
	StartNode *string `json:"startNode"`
	EndNode   *string `json:"endNode"`
}

type legacyBody struct {
	Embedded *struct {
		Samples []map[string]any `json:"samples"`
	} `json:"_embedded"`
	Page *struct {
		Size          int `json:"size"`
		TotalElements int `json:"totalElements"`
		Number        int `json:"number"`
	} `json:"page"`
}

// Decode normalizes a graph search body into a Response. It accepts the
// node/link shape and the legacy HAL sample listing.
func Decode(data []byte) (*Response, error) {
	errb := oops.In("result").Code("malformed_response")

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errb.Wrapf(ErrMalformedResponse, "response is not a JSON object: %v", err)
	}

	if _, ok := probe["_embedded"]; ok {
		return decodeLegacy(data)
	}

	if _, ok := probe["nodes"]; !ok {
		if page, ok := probe["page"]; ok && isObject(page) {
			// HAL drops _embedded when there are no samples.
			return decodeLegacy(data)
		}
	}

	return decodeCurrent(data)
}

func decodeCurrent(data []byte) (*Response, error) {
	errb := oops.In("result").Code("malformed_response")

	var body currentBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, errb.Wrapf(ErrMalformedResponse, "decode node/link body: %v", err)
	}

	if body.Nodes == nil {
		return nil, errb.Wrapf(ErrMalformedResponse, "missing nodes")
	}
	if body.Links == nil {
		return nil, errb.Wrapf(ErrMalformedResponse, "missing links")
	}

	resp := &Response{
		Nodes: make([]graph.Node, 0, len(*body.Nodes)),
		Links: make([]graph.Link, 0, len(*body.Links)),
		Page:  Page{Number: body.Page, Size: body.Size},
	}

	switch {
	case body.Total != nil:
		resp.Page.Total = *body.Total
	case body.TotalElements != nil:
		resp.Page.Total = *body.TotalElements
	}

	for i, n := range *body.Nodes {
		if n.ID == nil || *n.ID == "" {
			return nil, errb.With("node_index", i).Wrapf(ErrMalformedResponse, "node %d has no id", i)
		}
		if n.Type == nil {
			return nil, errb.With("node_index", i).Wrapf(ErrMalformedResponse, "node %d has no type", i)
		}

		attrs := n.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}

		resp.Nodes = append(resp.Nodes, graph.Node{ID: *n.ID, Kind: graph.NodeKind(*n.Type), Attributes: attrs})
	}

	for i, l := range *body.Links {
		if l.Type == nil || l.StartNode == nil || l.EndNode == nil {
			return nil, errb.With("link_index", i).Wrapf(ErrMalformedResponse, "link %d is incomplete", i)
		}

		resp.Links = append(resp.Links, graph.Link{
			Type:   graph.LinkType(*l.Type),
			Source: *l.StartNode,
			Target: *l.EndNode,
		})
	}

	return resp, nil
}

func decodeLegacy(data []byte) (*Response, error) {
	errb := oops.In("result").Code("malformed_response")

	var body legacyBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, errb.Wrapf(ErrMalformedResponse, "decode legacy body: %v", err)
	}

	resp := &Response{
		Nodes: []graph.Node{},
		Links: []graph.Link{},
	}

	if body.Page != nil {
		resp.Page = Page{Number: body.Page.Number, Size: body.Page.Size, Total: body.Page.TotalElements}
	}

	if body.Embedded == nil {
		return resp, nil
	}

	for i, s := range body.Embedded.Samples {
		accession, ok := s[graph.AttrAccession].(string)
		if !ok || accession == "" {
			return nil, errb.With("sample_index", i).Wrapf(ErrMalformedResponse, "sample %d has no accession", i)
		}

		attrs := map[string]any{graph.AttrAccession: accession}
		if name, ok := s[graph.AttrName].(string); ok {
			attrs[graph.AttrName] = name
		}

		resp.Nodes = append(resp.Nodes, graph.Node{ID: accession, Kind: graph.KindSample, Attributes: attrs})
	}

	return resp, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
