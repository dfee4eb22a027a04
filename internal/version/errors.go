package version

import (
	"fmt"
)

type NoTagsFoundError struct {
	Path string
}

func (e *NoTagsFoundError) Error() string {
	return fmt.Sprintf("no version tags reachable from HEAD in %s", e.Path)
}

type UnexpectedDescribeError struct {
	Output string
}

func (e *UnexpectedDescribeError) Error() string {
	return fmt.Sprintf("git describe output has an unexpected shape: %q", e.Output)
}

type InvalidCacheError struct {
	Path string
}

func (e *InvalidCacheError) Error() string {
	return fmt.Sprintf("%s is not a valid cached version file", e.Path)
}
