package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pls-lang/pls/internal/config"
	"github.com/pls-lang/pls/internal/please"
)

var (
	compileOutput      string
	compileSkipOptim   bool
	compileVerboseFlag bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a pls file to .cpls",
	Long: `Compile a pls program to a .cpls JSON document and save it.

The compiled document can be loaded with "pls interpret" without
re-lexing/parsing the original source.

Examples:
  pls compile script.pls
  pls compile script.pls -o out.cpls
  pls compile script.pls --skip-optimize`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (default: <input>.cpls)")
	compileCmd.Flags().BoolVar(&compileSkipOptim, "skip-optimize", false, "skip the constant-fold/propagate pass")
	compileCmd.Flags().BoolVarP(&compileVerboseFlag, "verbose", "v", false, "verbose output")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	outFile := compileOutput
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".cpls"
		} else {
			outFile = filename + ".cpls"
		}
	}

	project := loadProject()
	co := config.NewCompileOptions(project,
		config.WithCompileOptimize(!compileSkipOptim),
		config.WithOutputPath(outFile),
	)

	written, err := please.Compile(string(content),
		config.WithCompileOptimize(co.Optimize),
		config.WithOutputPath(co.OutputPath),
	)
	if err != nil {
		printRunError(err)
		return fmt.Errorf("compilation failed")
	}

	if compileVerboseFlag {
		fmt.Fprintf(os.Stderr, "Compiled %s -> %s\n", filename, written)
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, written)
	}
	return nil
}
