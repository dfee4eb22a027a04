package semver

import (
	"fmt"
)

type InvalidVersionError struct {
	v string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("%s is not a valid semantic version", e.v)
}

type InvalidPrereleaseError struct {
	id string
}

func (e *InvalidPrereleaseError) Error() string {
	return fmt.Sprintf("%s is not a valid prerelease identifier", e.id)
}

type InvalidBuildError struct {
	id string
}

func (e *InvalidBuildError) Error() string {
	return fmt.Sprintf("%s is not a valid build identifier", e.id)
}
