package version

import (
	"fmt"

	"github.com/andyballingall/gitver/internal/config"
	"github.com/andyballingall/gitver/internal/semver"
)

// Render renders the version with the given format. markDirty controls
// whether uncommitted changes append a dirty marker.
//
// An exact, clean tag checkout always renders as the bare tag version. Any
// deviation from a tag (commits past it, or a dirty tree) renders as a
// development prerelease of the next patch version, which sorts strictly
// after the tag under semver precedence. Untagged history renders as a
// development prerelease of the fallback base, since there is no release to
// sort after.
func (i *Info) Render(format config.Format, markDirty bool) string {
	dirty := i.Dirty && markDirty

	switch format {
	case config.FormatPEP440:
		return i.renderPEP440(dirty)
	case config.FormatDescribe:
		return i.renderDescribe(dirty, false)
	case config.FormatDescribeLong:
		return i.renderDescribe(dirty, true)
	default:
		return i.renderSemVer(dirty)
	}
}

func (i *Info) renderSemVer(dirty bool) string {
	if i.Tagged() && i.Distance == 0 && !dirty {
		return i.Base.String()
	}

	base := i.Base
	if i.Tagged() {
		base = base.NextPatch()
	}

	pre := []string{"dev", fmt.Sprintf("%d", i.Distance)}
	if dirty {
		pre = append(pre, "dirty")
	}
	// Identifiers are fixed-shape, append cannot fail
	v, _ := base.AppendPrerelease(pre...)
	if i.SHAAbbrev != "" {
		v, _ = v.AppendBuild("g" + i.SHAAbbrev)
	}
	return v.String()
}

func (i *Info) renderPEP440(dirty bool) string {
	if i.Tagged() && i.Distance == 0 && !dirty {
		return i.Base.String()
	}

	base := i.Base
	if i.Tagged() {
		base = base.NextPatch()
	}

	buf := fmt.Sprintf("%s.dev%d", base.Release().String(), i.Distance)
	if i.SHAAbbrev != "" {
		buf += "+g" + i.SHAAbbrev
		if dirty {
			buf += ".dirty"
		}
	} else if dirty {
		buf += "+dirty"
	}
	return buf
}

// renderDescribe mirrors git describe --tags --dirty [--long].
func (i *Info) renderDescribe(dirty, long bool) string {
	suffix := ""
	if dirty {
		suffix = "-dirty"
	}

	switch {
	case i.SHAAbbrev == "":
		// Repository with no commits; git describe has nothing to show.
		return i.TagPrefix + untaggedBase(i.Base) + "-0-g" + suffix
	case !i.Tagged():
		return i.SHAAbbrev + suffix
	case !long && i.Distance == 0:
		return i.Tag + suffix
	default:
		return fmt.Sprintf("%s-%d-g%s%s", i.Tag, i.Distance, i.SHAAbbrev, suffix)
	}
}

func untaggedBase(base semver.Version) string {
	v, _ := base.Release().AppendPrerelease("untagged")
	return v.String()
}
