package app

import (
	"github.com/spf13/cobra"
)

// NewWatchCmd returns a new cobra command for watching a working tree.
func NewWatchCmd(mgr Manager) *cobra.Command {
	output := outputValue("text")

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-resolve the version whenever the repository changes",
		Long: `
Watch the working tree and re-print the resolved version whenever the
repository state changes: new commits, tags, checkouts, or working tree
edits that flip the dirty state. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return mgr.WatchVersion(cmd.Context(), dir, output.String(), false, nil)
		},
	}

	cmd.Flags().VarP(&output, "output", "o", "output format: text or json")

	return cmd
}
