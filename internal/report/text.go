package report

import (
	"fmt"
	"io"

	"github.com/andyballingall/gitver/internal/version"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, info *version.Info) error {
	if !tr.Verbose {
		fmt.Fprintln(w, info.Version)
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Version: "), tr.cs(colBoldWhite, info.Version))
	if info.Tagged() {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Tag:     "), tr.cs(colWhite, info.Tag))
	} else {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Tag:     "), tr.cs(colYellow, "(untagged)"))
	}
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Base:    "), tr.cs(colWhite, info.Base.String()))
	fmt.Fprintf(w, "%s %d\n", tr.cs(colGrey, "Distance:"), info.Distance)
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Commit:  "), tr.cs(colWhite, shaLabel(info)))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Branch:  "), tr.cs(colWhite, info.Branch))
	if !info.Date.IsZero() {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Date:    "), tr.cs(colWhite, info.Date.Format("2006-01-02 15:04:05 -0700")))
	}

	dirty := tr.cs(colGreen, "clean")
	if info.Dirty {
		dirty = tr.cs(colYellow, "dirty")
	}
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Tree:    "), dirty)
	return nil
}

func shaLabel(info *version.Info) string {
	if info.SHA == "" {
		return "(no commits)"
	}
	if info.SHAAbbrev == "" {
		return info.SHA
	}
	return fmt.Sprintf("%s (%s)", info.SHAAbbrev, info.SHA)
}
