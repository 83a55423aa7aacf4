// Package serialize implements the .cpls compiled-AST format: a
// human-readable JSON tree of {Value, Word, Call} nodes with a
// discriminator "type" field, built and read with sjson/gjson path
// expressions rather than encoding/json struct tags.
package serialize

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/pls-lang/pls/internal/ast"
)

// Serialize renders node as a pretty-printed .cpls JSON document.
func Serialize(node ast.Node) (string, error) {
	doc, err := nodeToJSON(node)
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty([]byte(doc))), nil
}

// Deserialize parses a .cpls JSON document back into an ast.Node tree.
// The round-trip guarantee holds for {Value, Word, Call}; MethodCall is
// synthetic and never serialized, since the parser never produces one.
func Deserialize(data []byte) (ast.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("serialize: invalid JSON document")
	}
	return jsonToNode(gjson.ParseBytes(data))
}

func nodeToJSON(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.Value:
		return valueToJSON(n)
	case *ast.Word:
		doc, err := sjson.Set("{}", "type", "Word")
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, "name", n.Name)
	case *ast.Call:
		return callToJSON(n)
	default:
		return "", fmt.Errorf("serialize: unsupported node type %T", node)
	}
}

func valueToJSON(v *ast.Value) (string, error) {
	lit, err := json.Marshal(v.Literal)
	if err != nil {
		return "", fmt.Errorf("serialize: marshaling literal: %w", err)
	}
	doc, err := sjson.Set("{}", "type", "Value")
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(doc, "value", string(lit))
}

func callToJSON(c *ast.Call) (string, error) {
	doc, err := sjson.Set("{}", "type", "Call")
	if err != nil {
		return "", err
	}
	opJSON, err := nodeToJSON(c.Operator)
	if err != nil {
		return "", err
	}
	doc, err = sjson.SetRaw(doc, "operator", opJSON)
	if err != nil {
		return "", err
	}
	doc, err = sjson.SetRaw(doc, "args", "[]")
	if err != nil {
		return "", err
	}
	for i, a := range c.Args {
		argJSON, err := nodeToJSON(a)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, fmt.Sprintf("args.%d", i), argJSON)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func jsonToNode(r gjson.Result) (ast.Node, error) {
	switch kind := r.Get("type").String(); kind {
	case "Value":
		return &ast.Value{Literal: literalFromResult(r.Get("value"))}, nil
	case "Word":
		return &ast.Word{Name: r.Get("name").String()}, nil
	case "Call":
		opNode, err := jsonToNode(r.Get("operator"))
		if err != nil {
			return nil, err
		}
		argResults := r.Get("args").Array()
		args := make([]ast.Node, len(argResults))
		for i, a := range argResults {
			argNode, err := jsonToNode(a)
			if err != nil {
				return nil, err
			}
			args[i] = argNode
		}
		return &ast.Call{Operator: opNode, Args: args}, nil
	default:
		return nil, fmt.Errorf("serialize: unknown node type %q", kind)
	}
}

func literalFromResult(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}
