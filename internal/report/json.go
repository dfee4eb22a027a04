// Package report renders a resolved version for CLI consumers.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/andyballingall/gitver/internal/version"
)

// Reporter writes a resolved version Info to a writer.
type Reporter interface {
	Write(w io.Writer, info *version.Info) error
}

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonOutput struct {
	Version   string `json:"version"`
	Tag       string `json:"tag,omitempty"`
	TagPrefix string `json:"tagPrefix"`
	Base      string `json:"base"`
	Distance  int    `json:"distance"`
	SHA       string `json:"sha"`
	SHAAbbrev string `json:"shaAbbrev"`
	Branch    string `json:"branch,omitempty"`
	Date      string `json:"date,omitempty"`
	Dirty     bool   `json:"dirty"`
}

func (jr *JSONReporter) Write(w io.Writer, info *version.Info) error {
	out := jsonOutput{
		Version:   info.Version,
		Tag:       info.Tag,
		TagPrefix: info.TagPrefix,
		Base:      info.Base.String(),
		Distance:  info.Distance,
		SHA:       info.SHA,
		SHAAbbrev: info.SHAAbbrev,
		Branch:    info.Branch,
		Dirty:     info.Dirty,
	}
	if !info.Date.IsZero() {
		out.Date = info.Date.Format(time.RFC3339)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
