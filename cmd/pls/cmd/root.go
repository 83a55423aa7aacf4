package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pls-lang/pls/internal/config"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pls",
	Short: "pls language interpreter and compiler",
	Long: `pls is a small prototype-scoped scripting language: every operation,
including control flow, is a Call applied to an operator and an argument
list. This binary parses, optimizes, interprets, and compiles pls source.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadProject loads .plsrc.yaml from the current directory, if present. A
// missing file is not an error (config.LoadProject returns a nil Project).
func loadProject() *config.Project {
	project, err := config.LoadProject(".plsrc.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return project
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
