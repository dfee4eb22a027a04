package app

import (
	"github.com/spf13/cobra"
)

// NewWriteCmd returns a new cobra command for writing version files.
func NewWriteCmd(mgr Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write [path]",
		Short: "Write the resolved version into generated version files",
		Long: `
Resolve the version and render it into the write targets configured in
.gitver.yml: a generated Go source file exposing the version to the build,
and/or a JSON sidecar. The sidecar doubles as a cache: when the directory is
no longer a git repository (e.g. an exported source archive), gitver falls
back to it instead of failing.

Writes preserve the existing newline style and skip files whose content is
unchanged, so modification times are not touched needlessly.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
gitver write
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return mgr.WriteVersionFiles(cmd.Context(), dir)
		},
	}

	return cmd
}
