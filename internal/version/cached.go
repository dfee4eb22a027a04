package version

import (
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/andyballingall/gitver/internal/semver"
)

// ReadCached loads an Info from a JSON sidecar previously produced by
// 'gitver write'. It is the fallback when version resolution runs outside a
// git repository, e.g. in an exported source archive.
func ReadCached(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, &InvalidCacheError{Path: path}
	}

	parsed := gjson.ParseBytes(data)
	rendered := parsed.Get("version")
	if !rendered.Exists() {
		return nil, &InvalidCacheError{Path: path}
	}

	info := &Info{
		Tag:       parsed.Get("tag").String(),
		TagPrefix: parsed.Get("tagPrefix").String(),
		Distance:  int(parsed.Get("distance").Int()),
		SHA:       parsed.Get("sha").String(),
		SHAAbbrev: parsed.Get("shaAbbrev").String(),
		Branch:    parsed.Get("branch").String(),
		Dirty:     parsed.Get("dirty").Bool(),
		Version:   rendered.String(),
	}

	if d := parsed.Get("date"); d.Exists() && d.String() != "" {
		date, dErr := time.Parse(time.RFC3339, d.String())
		if dErr != nil {
			return nil, &InvalidCacheError{Path: path}
		}
		info.Date = date
	}

	if b := parsed.Get("base"); b.Exists() {
		base, bErr := semver.Parse(b.String())
		if bErr != nil {
			return nil, &InvalidCacheError{Path: path}
		}
		info.Base = base
	}

	return info, nil
}
