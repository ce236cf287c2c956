package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose       bool
	driverPath    string
	sessionName   string
	sessionPrefix string
	varFlags      []string
)

var rootCmd = &cobra.Command{
	Use:   "enbu",
	Short: "Declarative browser-automation flow engine",
	Long: `enbu runs YAML-defined browser automation flows against an external
headless-browser driver, emitting a line-delimited JSON progress protocol
as it goes.

Examples:
  # Run a flow
  enbu run flow.yaml

  # Run with variables
  enbu run flow.yaml --var username=admin --var password=secret

  # Validate a flow without executing it
  enbu validate flow.yaml

  # List the command registry
  enbu list
`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&driverPath, "driver", "", "Explicit path to the external driver binary")
	rootCmd.PersistentFlags().StringVar(&sessionName, "session", "", "Explicit session name (overrides the random-suffix default)")
	rootCmd.PersistentFlags().StringVar(&sessionPrefix, "session-prefix", "", "Session name prefix (default: enbu)")
	rootCmd.PersistentFlags().StringArrayVar(&varFlags, "var", nil, "Set a flow variable (key=value)")

	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Short:  "Help about any command",
		Hidden: true,
	})
}

// parseVariables parses --var flags into a dotenv-precedence map.
func parseVariables() map[string]string {
	vars := make(map[string]string)
	for _, v := range varFlags {
		for i := 0; i < len(v); i++ {
			if v[i] == '=' {
				vars[v[:i]] = v[i+1:]
				break
			}
		}
	}
	return vars
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
