package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pls-lang/pls/internal/config"
	"github.com/pls-lang/pls/internal/errors"
	"github.com/pls-lang/pls/internal/please"
)

var (
	runEval    string
	runDumpAST bool
	runTrace   bool
	runNoOpt   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a pls file or expression",
	Long: `Execute a pls program from a file or inline expression.

Examples:
  # Run a script file
  pls run script.pls

  # Evaluate an inline expression
  pls run -e 'println("Hello, World!")'

  # Run with AST dump (for debugging)
  pls run --dump-ast script.pls`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "dump the parsed AST before running")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "trace execution (for debugging)")
	runCmd.Flags().BoolVar(&runNoOpt, "no-optimize", false, "skip the constant-fold/propagate pass")
}

func runScript(_ *cobra.Command, args []string) error {
	var input, filename string
	switch {
	case runEval != "":
		input, filename = runEval, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	project := loadProject()
	opts := []config.RunOption{
		config.WithOptimize(!runNoOpt),
		config.WithTrace(runTrace),
		config.WithDumpAST(runDumpAST),
		config.WithOutput(os.Stdout),
	}
	ro := config.NewRunOptions(project, opts...)

	if runTrace {
		fmt.Fprintf(os.Stderr, "[trace mode enabled - executing %s]\n", filename)
	}

	_, err := please.Run(input, optsFromRunOptions(ro)...)
	if err != nil {
		printRunError(err)
		return fmt.Errorf("execution failed")
	}
	return nil
}

// optsFromRunOptions re-threads an already-resolved RunOptions (project
// defaults + flag overrides already merged) through please.Run's variadic
// RunOption API.
func optsFromRunOptions(ro config.RunOptions) []config.RunOption {
	return []config.RunOption{
		config.WithOptimize(ro.Optimize),
		config.WithTrace(ro.Trace),
		config.WithDumpAST(ro.DumpAST),
		config.WithOutput(ro.Output),
	}
}

func printRunError(err error) {
	if ce, ok := err.(*errors.CompilerError); ok {
		fmt.Fprintln(os.Stderr, ce.Format(true))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
