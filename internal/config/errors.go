package config

import (
	"fmt"
	"strings"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("config file is not valid YAML: %s", e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("config is missing required property: %s", e.Property)
}

type InvalidFormatError struct {
	Value string
}

func (e *InvalidFormatError) Error() string {
	valid := make([]string, len(Formats))
	for i, f := range Formats {
		valid[i] = string(f)
	}
	return fmt.Sprintf("%s is not a valid format - valid formats are: %s",
		e.Value, strings.Join(valid, ", "))
}

type InvalidFallbackVersionError struct {
	Value   string
	Wrapped error
}

func (e *InvalidFallbackVersionError) Error() string {
	return fmt.Sprintf("fallbackVersion %s must be a bare MAJOR.MINOR.PATCH version", e.Value)
}

type InvalidTimeoutError struct {
	Value   string
	Wrapped error
}

func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("commandTimeout %s must be a positive duration such as '5s'", e.Value)
}
