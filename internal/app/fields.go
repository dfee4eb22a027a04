package app

import (
	"github.com/spf13/cobra"
)

// NewFieldsCmd returns a new cobra command for printing the structured
// version fields.
func NewFieldsCmd(mgr Manager) *cobra.Command {
	output := outputValue("table")

	cmd := &cobra.Command{
		Use:   "fields [path]",
		Short: "Print the individual fields of the resolved version",
		Long: `
Print the structured breakdown of the resolved version: nearest tag, base
version, commit distance, hash, branch, commit date, and dirty state.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
gitver fields
gitver fields --output json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return mgr.Report(cmd.Context(), dir, output.String(), true)
		},
	}

	cmd.Flags().VarP(&output, "output", "o", "output format: table, text or json")

	return cmd
}
