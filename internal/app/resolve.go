package app

import (
	"github.com/spf13/cobra"
)

// NewResolveCmd returns a new cobra command for resolving the version.
func NewResolveCmd(mgr Manager) *cobra.Command {
	output := outputValue("text")

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Resolve and print the version of a working tree",
		Long: `
Resolve the version of the working tree at the given path (default: the
current directory) and print it. At an exact, clean tag checkout this is
the tag version itself; otherwise a development prerelease encoding the
commit distance, short hash, and dirty state.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
gitver resolve
gitver resolve ../other-project --format pep440
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return mgr.Report(cmd.Context(), dir, output.String(), false)
		},
	}

	cmd.Flags().VarP(&output, "output", "o", "output format: text or json")

	return cmd
}
