package openapi

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// JSON returns the document as indented JSON.
func (g *Generator) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(g.GenerateSpec(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi json: %w", err)
	}
	return data, nil
}

// YAML returns the document as YAML with the same key order as JSON.
func (g *Generator) YAML() ([]byte, error) {
	data, err := json.Marshal(g.GenerateSpec())
	if err != nil {
		return nil, fmt.Errorf("marshal openapi json: %w", err)
	}
	return JSONToYAML(data)
}

// JSONToYAML re-encodes a JSON document as block-style YAML. Decoding into a
// yaml.Node keeps mapping order, which a map round trip would lose.
func JSONToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode json as yaml: %w", err)
	}
	clearStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return out, nil
}

// clearStyle drops the flow and quoting styles inherited from JSON syntax.
// The encoder still quotes strings that would otherwise read as another type.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
