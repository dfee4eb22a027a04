// Package semver implements semantic versions as described by semver.org,
// including prerelease and build identifiers and precedence comparison.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Identifier patterns from semver.org.
const (
	numID   = `0|[1-9]\d*`
	preID   = `(?:` + numID + `|\d*[a-zA-Z-][0-9a-zA-Z-]*)`
	buildID = `[0-9a-zA-Z-]+`
)

var (
	versionRegex = regexp.MustCompile(
		`^(?P<major>` + numID + `)\.` +
			`(?P<minor>` + numID + `)\.` +
			`(?P<patch>` + numID + `)` +
			`(?:-(?P<prerelease>` + preID + `(?:\.` + preID + `)*))?` +
			`(?:\+(?P<build>` + buildID + `(?:\.` + buildID + `)*))?$`)
	numIDRegex   = regexp.MustCompile(`^(?:` + numID + `)$`)
	preIDRegex   = regexp.MustCompile(`^` + preID + `$`)
	buildIDRegex = regexp.MustCompile(`^` + buildID + `$`)
)

// Version is a semantic version. The zero value is "0.0.0".
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease []string
	Build      []string
}

// Parse parses a version string of the form
// MAJOR.MINOR.PATCH[-prerelease][+build].
func Parse(s string) (Version, error) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &InvalidVersionError{v: s}
	}

	// Matched numID, cannot fail
	major, _ := strconv.ParseUint(m[1], 10, 64)
	minor, _ := strconv.ParseUint(m[2], 10, 64)
	patch, _ := strconv.ParseUint(m[3], 10, 64)

	v := Version{Major: major, Minor: minor, Patch: patch}
	if m[4] != "" {
		v.Prerelease = strings.Split(m[4], ".")
	}
	if m[5] != "" {
		v.Build = strings.Split(m[5], ".")
	}
	return v, nil
}

// MustParse is Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// AppendPrerelease returns a copy of v with the given prerelease identifiers
// appended. Each identifier must match the semver prerelease grammar.
func (v Version) AppendPrerelease(ids ...string) (Version, error) {
	out := v.clone()
	for _, id := range ids {
		for _, part := range strings.Split(id, ".") {
			if !preIDRegex.MatchString(part) {
				return Version{}, &InvalidPrereleaseError{id: part}
			}
			out.Prerelease = append(out.Prerelease, part)
		}
	}
	return out, nil
}

// AppendBuild returns a copy of v with the given build identifiers appended.
func (v Version) AppendBuild(ids ...string) (Version, error) {
	out := v.clone()
	for _, id := range ids {
		for _, part := range strings.Split(id, ".") {
			if !buildIDRegex.MatchString(part) {
				return Version{}, &InvalidBuildError{id: part}
			}
			out.Build = append(out.Build, part)
		}
	}
	return out, nil
}

// NextPatch returns the release version following v, with no prerelease or
// build identifiers.
func (v Version) NextPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// Release returns v stripped of prerelease and build identifiers.
func (v Version) Release() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

func (v Version) clone() Version {
	out := Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	out.Prerelease = append(out.Prerelease, v.Prerelease...)
	out.Build = append(out.Build, v.Build...)
	return out
}

// String renders the version including prerelease and build identifiers.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Prerelease) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.Prerelease, "."))
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Join(v.Build, "."))
	}
	return b.String()
}

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater than o
// under semver precedence rules. Build identifiers are ignored.
func (v Version) Compare(o Version) int {
	if c := compareUint(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := compareUint(v.Patch, o.Patch); c != 0 {
		return c
	}

	// A version with a prerelease sorts before the bare release.
	switch {
	case len(v.Prerelease) == 0 && len(o.Prerelease) == 0:
		return 0
	case len(v.Prerelease) == 0:
		return 1
	case len(o.Prerelease) == 0:
		return -1
	}

	for i := 0; i < len(v.Prerelease) && i < len(o.Prerelease); i++ {
		if c := comparePreID(v.Prerelease[i], o.Prerelease[i]); c != 0 {
			return c
		}
	}
	return compareUint(uint64(len(v.Prerelease)), uint64(len(o.Prerelease)))
}

// comparePreID compares two prerelease identifiers. Numeric identifiers
// compare numerically and sort before alphanumeric ones.
func comparePreID(a, b string) int {
	aNum := numIDRegex.MatchString(a)
	bNum := numIDRegex.MatchString(b)
	switch {
	case aNum && bNum:
		ai, _ := strconv.ParseUint(a, 10, 64)
		bi, _ := strconv.ParseUint(b, 10, 64)
		return compareUint(ai, bi)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
