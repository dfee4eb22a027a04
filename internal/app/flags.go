package app

import (
	"fmt"
)

// outputValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type outputValue string

func (o *outputValue) String() string {
	return string(*o)
}

func (o *outputValue) Set(v string) error {
	if v != "text" && v != "json" && v != "table" {
		return fmt.Errorf("must be 'text', 'json' or 'table'")
	}
	*o = outputValue(v)
	return nil
}

func (o *outputValue) Type() string {
	return "<output>"
}
