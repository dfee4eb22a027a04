package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andyballingall/gitver/internal/config"
	"github.com/andyballingall/gitver/internal/fs"
)

// NewInitCmd returns a new cobra command for writing a default config file.
func NewInitCmd(pathResolver fs.PathResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " [path]",
		Short: "Write a default gitver configuration file",
		Long:  `Write a commented default ` + config.GitverConfigFile + ` into the given directory.`,
		Args:  cobra.MaximumNArgs(1),
		Example: `
gitver init
gitver init ./my-project
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			configPath := filepath.Join(dir, config.GitverConfigFile)
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s", configPath)
			}

			if err := os.WriteFile(configPath, []byte(config.DefaultConfigContent), 0o600); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			abs, err := pathResolver.Abs(configPath)
			if err != nil {
				abs = configPath
			}
			cmd.Printf("Successfully created %s\n", abs)
			cmd.Println("\nTo check the resolved version, run: gitver resolve")

			return nil
		},
	}

	return cmd
}
