// Package codegen implements an optional source-to-source lowering: a
// recursive mapping from the AST to an equivalent JavaScript-shaped
// target-language expression string, plus a declaration-hoisting helper
// for do/run blocks (collect names, emit in hoisted order before the
// body) for the let-hoisting pass.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pls-lang/pls/internal/ast"
)

var infixOperators = map[string]string{
	"+": "+", "-": "-", "*": "*", "/": "/",
	"==": "===", "!=": "!==", "<": "<", ">": ">",
	"&&": "&&", "||": "||",
}

// Generate lowers node to a single JavaScript expression string.
func Generate(node ast.Node) (string, error) {
	return genExpr(node)
}

func genExpr(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.Value:
		return genLiteral(n.Literal)
	case *ast.Word:
		return genWord(n), nil
	case *ast.Call:
		return genCall(n)
	case *ast.MethodCall:
		return genMethodCall(n)
	default:
		return "", fmt.Errorf("codegen: unsupported node type %T", node)
	}
}

func genWord(w *ast.Word) string {
	if w.Name == "self" {
		return "this"
	}
	if !w.HasMemberPath() {
		return w.Name
	}
	segs := w.Segments()
	out := make([]string, len(segs))
	for i, s := range segs {
		if i == 0 && s == "self" {
			out[i] = "this"
			continue
		}
		out[i] = s
	}
	return strings.Join(out, ".")
}

func genLiteral(lit any) (string, error) {
	switch v := lit.(type) {
	case nil:
		return "undefined", nil
	case string:
		return strconv.Quote(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("codegen: unsupported literal type %T", lit)
	}
}

func genMethodCall(m *ast.MethodCall) (string, error) {
	recv, err := genExpr(m.Receiver)
	if err != nil {
		return "", err
	}
	args, err := genArgs(m.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s(%s)", recv, m.Key, strings.Join(args, ", ")), nil
}

func genArgs(nodes []ast.Node) ([]string, error) {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := genExpr(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func genCall(c *ast.Call) (string, error) {
	w, isWord := c.Operator.(*ast.Word)
	if !isWord {
		op, err := genExpr(c.Operator)
		if err != nil {
			return "", err
		}
		args, err := genArgs(c.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s)(%s)", op, strings.Join(args, ", ")), nil
	}

	switch w.Name {
	case "if":
		return genIf(c.Args)
	case "while":
		return genWhile(c.Args)
	case "for":
		return genFor(c.Args)
	case "foreach":
		return genForeach(c.Args)
	case "run", "do":
		return genBlockExpr(c.Args)
	case "let", "def", ":=":
		return genLet(c.Args)
	case "fn", "function", "->":
		return genFn(c.Args)
	case "assign", "set", "=":
		return genAssign(c.Args)
	case "object":
		return genObject(c.Args)
	case "println":
		args, err := genArgs(c.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("console.log(%s)", strings.Join(args, ", ")), nil
	case "arr", "array":
		args, err := genArgs(c.Args)
		if err != nil {
			return "", err
		}
		return "[" + strings.Join(args, ", ") + "]", nil
	case "map", "hash":
		return genMapLiteral(c.Args)
	case "element":
		if len(c.Args) != 2 {
			return "", fmt.Errorf("codegen: element requires 2 arguments, got %d", len(c.Args))
		}
		container, err := genExpr(c.Args[0])
		if err != nil {
			return "", err
		}
		idx, err := genExpr(c.Args[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", container, idx), nil
	case "len", "length":
		if len(c.Args) != 1 {
			return "", fmt.Errorf("codegen: len requires 1 argument, got %d", len(c.Args))
		}
		target, err := genExpr(c.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s).length", target), nil
	}

	if jsOp, ok := infixOperators[w.Name]; ok && len(c.Args) == 2 {
		lhs, err := genExpr(c.Args[0])
		if err != nil {
			return "", err
		}
		rhs, err := genExpr(c.Args[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", lhs, jsOp, rhs), nil
	}

	args, err := genArgs(c.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", w.Name, strings.Join(args, ", ")), nil
}

func genIf(args []ast.Node) (string, error) {
	if len(args) != 2 && len(args) != 3 {
		return "", fmt.Errorf("codegen: if requires 2 or 3 arguments, got %d", len(args))
	}
	cond, err := genExpr(args[0])
	if err != nil {
		return "", err
	}
	then, err := genExpr(args[1])
	if err != nil {
		return "", err
	}
	elseExpr := "undefined"
	if len(args) == 3 {
		elseExpr, err = genExpr(args[2])
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("(%s !== false ? %s : %s)", cond, then, elseExpr), nil
}

func genWhile(args []ast.Node) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("codegen: while requires 2 arguments, got %d", len(args))
	}
	cond, err := genExpr(args[0])
	if err != nil {
		return "", err
	}
	body, err := genExpr(args[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(function(){ while (%s !== false) { %s; } return undefined; })()", cond, body), nil
}

func genFor(args []ast.Node) (string, error) {
	if len(args) != 4 {
		return "", fmt.Errorf("codegen: for requires 4 arguments, got %d", len(args))
	}
	init, err := genExpr(args[0])
	if err != nil {
		return "", err
	}
	cond, err := genExpr(args[1])
	if err != nil {
		return "", err
	}
	update, err := genExpr(args[2])
	if err != nil {
		return "", err
	}
	body, err := genExpr(args[3])
	if err != nil {
		return "", err
	}
	names := collectLetNames(args[:1])
	decl := ""
	if len(names) > 0 {
		decl = "var " + strings.Join(names, ", ") + "; "
	}
	return fmt.Sprintf("(function(){ %sfor (%s; %s !== false; %s) { %s; } return undefined; })()",
		decl, init, cond, update, body), nil
}

func genForeach(args []ast.Node) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("codegen: foreach requires 3 arguments, got %d", len(args))
	}
	w, ok := args[0].(*ast.Word)
	if !ok {
		return "", fmt.Errorf("codegen: foreach's first argument must be a Word")
	}
	iterable, err := genExpr(args[1])
	if err != nil {
		return "", err
	}
	body, err := genExpr(args[2])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(function(){ for (const %s of %s) { %s; } return undefined; })()", w.Name, iterable, body), nil
}

// genBlockExpr lowers run/do: an IIFE whose body hoists every top-level
// let/def/:= name as a `var` declaration, runs every statement but the
// last for effect, and returns the last statement's value.
func genBlockExpr(stmts []ast.Node) (string, error) {
	body, err := genBlockBody(stmts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(function(){ %s })()", body), nil
}

func genBlockBody(stmts []ast.Node) (string, error) {
	var sb strings.Builder
	if names := collectLetNames(stmts); len(names) > 0 {
		sb.WriteString("var ")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("; ")
	}
	if len(stmts) == 0 {
		sb.WriteString("return undefined;")
		return sb.String(), nil
	}
	for _, s := range stmts[:len(stmts)-1] {
		expr, err := genExpr(s)
		if err != nil {
			return "", err
		}
		sb.WriteString(expr)
		sb.WriteString("; ")
	}
	last, err := genExpr(stmts[len(stmts)-1])
	if err != nil {
		return "", err
	}
	sb.WriteString("return ")
	sb.WriteString(last)
	sb.WriteString(";")
	return sb.String(), nil
}

// collectLetNames is the declaration-hoisting helper: it walks the direct
// (non-nested) statements of a block and gathers the names bound by
// let/def/:=, so they can be emitted as `var` declarations ahead of the
// body in the generated output.
func collectLetNames(stmts []ast.Node) []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range stmts {
		c, ok := s.(*ast.Call)
		if !ok {
			continue
		}
		w, ok := c.Operator.(*ast.Word)
		if !ok {
			continue
		}
		if w.Name != "let" && w.Name != "def" && w.Name != ":=" {
			continue
		}
		if len(c.Args) != 2 {
			continue
		}
		target, ok := c.Args[0].(*ast.Word)
		if !ok || target.HasMemberPath() || seen[target.Name] {
			continue
		}
		seen[target.Name] = true
		names = append(names, target.Name)
	}
	return names
}

// genLet lowers to a plain assignment expression; the declaration itself
// was already hoisted to a `var` by the enclosing block/for.
func genLet(args []ast.Node) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("codegen: let requires 2 arguments, got %d", len(args))
	}
	w, ok := args[0].(*ast.Word)
	if !ok {
		return "", fmt.Errorf("codegen: let's first argument must be a Word")
	}
	val, err := genExpr(args[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s = %s)", genWord(w), val), nil
}

func genFn(args []ast.Node) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("codegen: fn requires a body as its last argument")
	}
	params := make([]string, 0, len(args)-1)
	for _, p := range args[:len(args)-1] {
		w, ok := p.(*ast.Word)
		if !ok {
			return "", fmt.Errorf("codegen: fn parameters must be Words")
		}
		params = append(params, w.Name)
	}
	body, err := genExpr(args[len(args)-1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(function(%s) { return %s; })", strings.Join(params, ", "), body), nil
}

func genAssign(args []ast.Node) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("codegen: assign requires at least 2 arguments, got %d", len(args))
	}
	indices := args[1 : len(args)-1]
	valueNode := args[len(args)-1]
	val, err := genExpr(valueNode)
	if err != nil {
		return "", err
	}

	var target string
	switch t := args[0].(type) {
	case *ast.Word:
		target = genWord(t)
	case *ast.MethodCall:
		recv, err := genExpr(t.Receiver)
		if err != nil {
			return "", err
		}
		target = fmt.Sprintf("%s.%s", recv, t.Key)
	default:
		return "", fmt.Errorf("codegen: assign's first argument must be a Word or member reference")
	}

	for _, idxNode := range indices {
		idx, err := genExpr(idxNode)
		if err != nil {
			return "", err
		}
		target = fmt.Sprintf("%s[%s]", target, idx)
	}
	return fmt.Sprintf("(%s = %s)", target, val), nil
}

func genObject(args []ast.Node) (string, error) {
	if len(args)%2 != 0 {
		return "", fmt.Errorf("codegen: object requires an even number of key/value arguments, got %d", len(args))
	}
	pairs := make([]string, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		keyVal, ok := args[i].(*ast.Value)
		if !ok {
			return "", fmt.Errorf("codegen: object key must be a literal")
		}
		key, ok := keyVal.Literal.(string)
		if !ok {
			return "", fmt.Errorf("codegen: object key must be a string literal")
		}
		val, err := genExpr(args[i+1])
		if err != nil {
			return "", err
		}
		pairs = append(pairs, fmt.Sprintf("%s: %s", strconv.Quote(key), val))
	}
	return "{ " + strings.Join(pairs, ", ") + " }", nil
}

func genMapLiteral(args []ast.Node) (string, error) {
	if len(args)%2 != 0 {
		return "", fmt.Errorf("codegen: map requires an even number of key/value arguments, got %d", len(args))
	}
	pairs := make([]string, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, err := genExpr(args[i])
		if err != nil {
			return "", err
		}
		val, err := genExpr(args[i+1])
		if err != nil {
			return "", err
		}
		pairs = append(pairs, fmt.Sprintf("[%s]: %s", key, val))
	}
	return "{ " + strings.Join(pairs, ", ") + " }", nil
}
