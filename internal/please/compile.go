package please

import (
	"fmt"
	"io"
	"os"

	"github.com/pls-lang/pls/internal/config"
	"github.com/pls-lang/pls/internal/interp"
	"github.com/pls-lang/pls/internal/optimizer"
	"github.com/pls-lang/pls/internal/serialize"
)

// Compile lowers source to a .cpls JSON document. When opts sets an
// OutputPath, the document is written there and Compile returns the path
// written; otherwise it returns the document itself.
func Compile(source string, opts ...config.CompileOption) (string, error) {
	co := config.NewCompileOptions(nil, opts...)
	node, err := parseWithSource(source, "")
	if err != nil {
		return "", err
	}
	if co.Optimize {
		node = optimizer.OptimizeWithScope(node, interp.New(io.Discard).Top)
	}
	doc, err := serialize.Serialize(node)
	if err != nil {
		return "", err
	}
	if co.OutputPath == "" {
		return doc, nil
	}
	if err := os.WriteFile(co.OutputPath, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("please: writing %s: %w", co.OutputPath, err)
	}
	return co.OutputPath, nil
}

// Interpret evaluates a .cpls JSON document directly, skipping the
// lexer/parser entirely.
func Interpret(cpls string, opts ...config.RunOption) (interp.Value, error) {
	node, err := serialize.Deserialize([]byte(cpls))
	if err != nil {
		return nil, fmt.Errorf("please: %w", err)
	}
	ro := config.NewRunOptions(nil, opts...)
	ev := interp.New(ro.Output)
	if ro.Optimize {
		node = optimizer.OptimizeWithScope(node, ev.Top)
	}
	return ev.Run(node)
}

// InterpretFromFile reads a .cpls document from path and interprets it.
func InterpretFromFile(path string, opts ...config.RunOption) (interp.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("please: reading %s: %w", path, err)
	}
	return Interpret(string(data), opts...)
}
