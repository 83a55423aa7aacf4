package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pls-lang/pls/internal/config"
	"github.com/pls-lang/pls/internal/please"
)

var interpretNoOpt bool

var interpretCmd = &cobra.Command{
	Use:   "interpret <file.cpls>",
	Short: "Evaluate a compiled .cpls document",
	Long: `Evaluate a .cpls JSON document directly, skipping the lexer and
parser entirely.

Example:
  pls compile script.pls
  pls interpret script.cpls`,
	Args: cobra.ExactArgs(1),
	RunE: interpretFile,
}

func init() {
	rootCmd.AddCommand(interpretCmd)
	interpretCmd.Flags().BoolVar(&interpretNoOpt, "no-optimize", false, "skip the constant-fold/propagate pass")
}

func interpretFile(_ *cobra.Command, args []string) error {
	project := loadProject()
	ro := config.NewRunOptions(project,
		config.WithOptimize(!interpretNoOpt),
		config.WithOutput(os.Stdout),
	)

	_, err := please.InterpretFromFile(args[0],
		config.WithOptimize(ro.Optimize),
		config.WithOutput(ro.Output),
	)
	if err != nil {
		printRunError(err)
		return fmt.Errorf("interpretation failed")
	}
	return nil
}
