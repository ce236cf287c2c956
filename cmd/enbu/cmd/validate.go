package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/9wick/enbu/flow"
)

var validateCmd = &cobra.Command{
	Use:   "validate <flow-file>",
	Short: "Parse and validate a flow without executing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := flow.ValidateFile(path, parseVariables())
	if err != nil {
		return fmt.Errorf("%s: invalid: %w", path, err)
	}
	fmt.Printf("%s: valid (%d steps)\n", path, f.StepCount())
	return nil
}
