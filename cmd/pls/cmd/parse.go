package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/match"

	"github.com/pls-lang/pls/internal/ast"
	"github.com/pls-lang/pls/internal/parser"
)

var (
	parseExpr    string
	parseDumpAST bool
	parseFilter  string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse pls source and display the AST",
	Long: `Parse pls source code and display its Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression given on the command line, and --filter to restrict the
--dump-ast listing to top-level Calls whose operator name matches a glob
(e.g. --filter 'let*' shows only top-level let bindings; def and :=
bindings do not match that pattern).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "expression", "e", "", "parse an expression given on the command line")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the AST node tree")
	parseCmd.Flags().StringVar(&parseFilter, "filter", "", "glob filter on top-level Call operator names")
}

func runParse(_ *cobra.Command, args []string) error {
	var input string
	switch {
	case parseExpr != "":
		input = parseExpr
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	node, err := parser.Parse(input)
	if err != nil {
		printRunError(err)
		return fmt.Errorf("parsing failed")
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		dumpASTNode(node, 0, parseFilter)
	} else {
		fmt.Println(node.String())
	}
	return nil
}

func dumpASTNode(node ast.Node, indent int, filter string) {
	indentStr := ""
	for i := 0; i < indent; i++ {
		indentStr += "  "
	}

	switch n := node.(type) {
	case *ast.Value:
		fmt.Printf("%sValue: %v\n", indentStr, n.Literal)
	case *ast.Word:
		fmt.Printf("%sWord: %s\n", indentStr, n.Name)
	case *ast.Call:
		name := operatorName(n.Operator)
		if filter != "" && indent == 0 && !match.Match(name, filter) {
			return
		}
		fmt.Printf("%sCall: %s (%d args)\n", indentStr, name, len(n.Args))
		dumpASTNode(n.Operator, indent+1, "")
		for _, a := range n.Args {
			dumpASTNode(a, indent+1, "")
		}
	case *ast.MethodCall:
		fmt.Printf("%sMethodCall: .%s (%d args)\n", indentStr, n.Key, len(n.Args))
		dumpASTNode(n.Receiver, indent+1, "")
		for _, a := range n.Args {
			dumpASTNode(a, indent+1, "")
		}
	default:
		fmt.Printf("%s%T: %v\n", indentStr, node, node)
	}
}

func operatorName(n ast.Node) string {
	if w, ok := n.(*ast.Word); ok {
		return w.Name
	}
	return n.String()
}
