package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/andyballingall/gitver/internal/config"
	"github.com/andyballingall/gitver/internal/fs"
	"github.com/andyballingall/gitver/internal/repo"
	"github.com/andyballingall/gitver/internal/version"
)

// Version is the current version of gitver, set at build time.
var Version = "dev"

const InitCmdName = "init"

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "GITVER_CONFIG"

var LongDescription = `
gitver derives a semantic version from the state of a git repository: the
nearest reachable version tag, the number of commits since it, the commit
hash, and whether the working tree has uncommitted changes.

At an exact, clean tag checkout the version is the tag itself. Anywhere else
it is a development prerelease that sorts after the tag, so build artifacts
are always ordered correctly. Version resolution never blocks a build: when
tags are missing or git misbehaves, gitver degrades to a fallback version.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stderr io.Writer, envProvider fs.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath string
	var format string

	rootCmd := &cobra.Command{
		Use:           "gitver",
		Short:         "Derive a semantic version from git repository state",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help, completion and init commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				if debug {
					ll.Set(slog.LevelDebug)
				}
				return nil
			}

			// 1. Setup Logging
			if debug {
				ll.Set(slog.LevelDebug)
			}

			logger, _, lErr := setupLogger(stderr, ll, envProvider)
			if lErr != nil {
				logger.Warn("logging to file disabled", "error", lErr)
			}

			// 2. Load configuration: flag, then env var, then the config
			// file in the target directory, then defaults.
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfgPath := configPath
			if cfgPath == "" {
				cfgPath = envProvider.Get(ConfigEnvVar)
			}

			var cfg *config.Config
			var err error
			if cfgPath != "" {
				cfg, err = config.Load(cfgPath)
			} else {
				cfg, err = config.New(dir)
			}
			if err != nil {
				return fmt.Errorf("configuration failed: %w", err)
			}

			if format != "" {
				cfg.Format = config.Format(format)
				if vErr := cfg.Validate(); vErr != nil {
					return vErr
				}
			}

			// 3. Build Dependencies
			gitter := repo.NewCLIGitter(cfg.Timeout)
			cache := version.NewCache()
			resolver := version.NewResolver(gitter, cfg, logger, cache)

			// 4. Hydrate the Lazy Wrapper
			realMgr := NewCLIManager(logger, cfg, gitter, resolver, cache)
			realMgr.useColour = !noColour
			lazy.SetInner(realMgr)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (overrides env/discovery)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "",
		"render format: semver, pep440, describe, describe-long (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewInitCmd(fs.NewPathResolver()))
	rootCmd.AddCommand(NewResolveCmd(lazy))
	rootCmd.AddCommand(NewFieldsCmd(lazy))
	rootCmd.AddCommand(NewWriteCmd(lazy))
	rootCmd.AddCommand(NewWatchCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
