package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/andyballingall/gitver/internal/version"
)

// TableReporter implements Reporter using a rendered table, one row per
// version field.
type TableReporter struct {
	UseColour bool
}

func (tr *TableReporter) Write(w io.Writer, info *version.Info) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if tr.UseColour {
		t.SetStyle(table.StyleColoredBright)
	} else {
		t.SetStyle(table.StyleLight)
	}

	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Version", info.Version})
	tag := info.Tag
	if !info.Tagged() {
		tag = "(untagged)"
	}
	t.AppendRows([]table.Row{
		{"Tag", tag},
		{"Base", info.Base.String()},
		{"Distance", fmt.Sprintf("%d", info.Distance)},
		{"SHA", info.SHA},
		{"Abbrev", info.SHAAbbrev},
		{"Branch", info.Branch},
	})
	if !info.Date.IsZero() {
		t.AppendRow(table.Row{"Date", info.Date.Format(time.RFC3339)})
	}
	tree := "clean"
	if info.Dirty {
		tree = "dirty"
	}
	t.AppendRow(table.Row{"Tree", tree})

	t.Render()
	return nil
}
