package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/gitver/internal/semver"
)

const GitverConfigFile = ".gitver.yml"

const DefaultConfigContent = `# gitver configuration

# TAG PREFIX
#
# Only tags beginning with this prefix are considered version tags, and the
# prefix is stripped before the tag is parsed as a semantic version.
# i.e. "v" matches v1.2.3, "ver" matches ver1.2.3.
tagPrefix: "v"

# FALLBACK VERSION
#
# The base version used when no version tag is reachable from HEAD, for
# example in a repository that has never been tagged. Must be a bare
# MAJOR.MINOR.PATCH semantic version.
fallbackVersion: "0.0.0"

# RENDER FORMAT
#
# How the resolved version is rendered. gitver supports:
# - semver        1.2.3, or 1.2.4-dev.3+gabc1234 past the tag (Default)
# - pep440        1.2.3, or 1.2.4.dev3+gabc1234 past the tag
# - describe      matches git describe --tags --dirty
# - describe-long matches git describe --tags --dirty --long
format: "semver"

# DIRTY MARKER
#
# Whether uncommitted changes append a dirty marker to the rendered version.
includeDirty: true

# COMMAND TIMEOUT
#
# Upper bound for a single git query. On timeout gitver degrades to the
# fallback version rather than blocking a build.
commandTimeout: "5s"

# WRITE TARGET
#
# Where 'gitver write' places generated version files. The JSON sidecar also
# serves as a cache: if the directory later stops being a git repository
# (e.g. a source tarball), gitver falls back to it.
#write:
#  path: "internal/version/version.go"
#  package: "version"
#  jsonPath: "internal/version/version.json"
`

// Format selects how a resolved version is rendered.
type Format string

const (
	FormatSemVer       Format = "semver"
	FormatPEP440       Format = "pep440"
	FormatDescribe     Format = "describe"
	FormatDescribeLong Format = "describe-long"
)

// Formats lists the supported render formats.
var Formats = []Format{FormatSemVer, FormatPEP440, FormatDescribe, FormatDescribeLong}

const defaultCommandTimeout = 5 * time.Second

// WriteConfig describes the targets for 'gitver write'.
type WriteConfig struct {
	Path     string `yaml:"path"`
	Package  string `yaml:"package"`
	JSONPath string `yaml:"jsonPath"`
}

type Config struct {
	TagPrefix       string       `yaml:"tagPrefix"`
	FallbackVersion string       `yaml:"fallbackVersion"`
	Format          Format       `yaml:"format"`
	IncludeDirty    *bool        `yaml:"includeDirty"`
	CommandTimeout  string       `yaml:"commandTimeout"`
	Write           *WriteConfig `yaml:"write"`

	// These are set for convenience when the config is validated.
	Fallback semver.Version `yaml:"-"`
	Timeout  time.Duration  `yaml:"-"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	c := &Config{}
	// Cannot fail on the zero value
	_ = c.Validate()
	return c
}

// New loads the configuration from dir, falling back to defaults when no
// config file exists there.
func New(dir string) (*Config, error) {
	configPath := filepath.Join(dir, GitverConfigFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(configPath)
}

// Load reads the configuration from an explicit path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingConfigError{Path: path}
		}
		return nil, err
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, &InvalidYAMLError{Wrapped: err}
	}

	if vErr := config.Validate(); vErr != nil {
		return nil, vErr
	}

	return &config, nil
}

// MarksDirty returns true if uncommitted changes should append a dirty
// marker to the rendered version.
func (c *Config) MarksDirty() bool {
	return c.IncludeDirty == nil || *c.IncludeDirty
}

func (c *Config) Validate() error {
	if c.TagPrefix == "" {
		c.TagPrefix = "v"
	}

	if c.FallbackVersion == "" {
		c.FallbackVersion = "0.0.0"
	}
	fallback, err := semver.Parse(c.FallbackVersion)
	if err != nil {
		return &InvalidFallbackVersionError{Value: c.FallbackVersion, Wrapped: err}
	}
	if len(fallback.Prerelease) > 0 || len(fallback.Build) > 0 {
		return &InvalidFallbackVersionError{Value: c.FallbackVersion}
	}
	c.Fallback = fallback

	if c.Format == "" {
		c.Format = FormatSemVer
	}
	valid := false
	for _, f := range Formats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return &InvalidFormatError{Value: string(c.Format)}
	}

	if c.CommandTimeout == "" {
		c.Timeout = defaultCommandTimeout
	} else {
		d, tErr := time.ParseDuration(c.CommandTimeout)
		if tErr != nil || d <= 0 {
			return &InvalidTimeoutError{Value: c.CommandTimeout, Wrapped: tErr}
		}
		c.Timeout = d
	}

	if c.Write != nil {
		if c.Write.Path == "" && c.Write.JSONPath == "" {
			return &MissingPropertyError{Property: "write.path or write.jsonPath"}
		}
		if c.Write.Path != "" && c.Write.Package == "" {
			c.Write.Package = filepath.Base(filepath.Dir(c.Write.Path))
		}
	}

	return nil
}
