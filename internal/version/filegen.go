package version

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// GoFileContent renders info as a generated Go source file exposing the
// version to the embedding build.
func GoFileContent(info *Info, pkg string) string {
	var b bytes.Buffer
	b.WriteString("// Code generated by gitver. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("// Version information resolved from the git repository state.\n")
	b.WriteString("const (\n")
	fmt.Fprintf(&b, "\tVersion   = %q\n", info.Version)
	fmt.Fprintf(&b, "\tTag       = %q\n", info.Tag)
	fmt.Fprintf(&b, "\tSHA       = %q\n", info.SHA)
	fmt.Fprintf(&b, "\tSHAAbbrev = %q\n", info.SHAAbbrev)
	fmt.Fprintf(&b, "\tBranch    = %q\n", info.Branch)
	fmt.Fprintf(&b, "\tDate      = %q\n", dateString(info.Date))
	fmt.Fprintf(&b, "\tDistance  = %d\n", info.Distance)
	fmt.Fprintf(&b, "\tDirty     = %t\n", info.Dirty)
	b.WriteString(")\n")
	return b.String()
}

// JSONContent renders info as the JSON sidecar consumed by ReadCached.
func JSONContent(info *Info) (string, error) {
	out := map[string]any{
		"version":   info.Version,
		"tag":       info.Tag,
		"tagPrefix": info.TagPrefix,
		"base":      info.Base.String(),
		"distance":  info.Distance,
		"sha":       info.SHA,
		"shaAbbrev": info.SHAAbbrev,
		"branch":    info.Branch,
		"date":      dateString(info.Date),
		"dirty":     info.Dirty,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// WriteFile writes content to path, matching the newline style of an
// existing file and skipping the write entirely when the content is
// identical, so unchanged version files keep their modification time.
func WriteFile(path, content string) error {
	buf := []byte(content)
	existing, err := os.ReadFile(path)
	if err == nil {
		if bytes.Contains(existing, []byte("\r\n")) {
			buf = bytes.ReplaceAll(buf, []byte("\n"), []byte("\r\n"))
		}
		if bytes.Equal(buf, existing) {
			return nil
		}
	}
	return os.WriteFile(path, buf, 0o644)
}
