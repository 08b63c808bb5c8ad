// Package printers renders session pages, entries, issues and rebuild warnings
// for the terminal.
package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/buttercsv/pkg/check"
	"tableflip.dev/buttercsv/pkg/session"
)

const (
	// DefaultPreview is the column width of the text preview in page tables.
	DefaultPreview = 48

	warnSign = "⚠"
	newline  = "⏎"
	ellipsis = "…"
)

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// Preview is the width of list previews; 0 uses DefaultPreview.
	Preview int
}

// Writer is where pp prints.
func (pp *PrettyPrint) Writer() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Writer(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.Writer(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Writer(), title)
	_, _ = c.Fprintf(pp.Writer(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Writer(), " entry")
	default:
		_, _ = c.Fprintln(pp.Writer(), " entries")
	}
}

// PageTitle prints "Page n/m" with the number of entries on the page.
func (pp *PrettyPrint) PageTitle(page, pages, count int) {
	if pages == 0 {
		pages = 1
	}
	pp.TitleWithCount(fmt.Sprintf("Page %d/%d", page+1, pages), count)
}

// Page prints one row per entry: number, share count, preview and issues.
func (pp *PrettyPrint) Page(views []session.EntryView) {
	if len(views) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Writer(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	warn := color.New(color.FgHiYellow)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Entry"), bold.Sprint("Rows"), bold.Sprint("Text"), bold.Sprint("Issues"))
	for _, v := range views {
		num := strconv.Itoa(v.Number)
		if v.Edited {
			num = "*" + num
		}
		issues := ""
		if len(v.Issues) > 0 {
			issues = warn.Sprintf("%s %s", warnSign, check.Summary(v.Issues))
		}
		tbl.AddRow(num, fmt.Sprintf("%dx", v.Count), pp.preview(v.Value), issues)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.Writer(), tbl)
	pp.NewLine()
}

// Entry prints the label of an entry and its full text, indented.
func (pp *PrettyPrint) Entry(v session.EntryView) {
	label := color.New(color.Bold)
	if len(v.Issues) > 0 {
		label = color.New(color.Bold, color.FgHiYellow)
	}
	_, _ = label.Fprintln(pp.Writer(), Label(v))

	if v.Edited {
		orig := color.New(color.Faint)
		_, _ = orig.Fprintln(pp.Writer(), indent.String(v.Key, 4))
		_, _ = orig.Fprintln(pp.Writer(), "  →")
	}
	_, _ = fmt.Fprintln(pp.Writer(), indent.String(v.Value, 4))
	pp.NewLine()
}

// Issues prints one line per issue, or a confirmation when there are none.
func (pp *PrettyPrint) Issues(issues []check.Issue) {
	if len(issues) == 0 {
		ok := color.New(color.FgGreen)
		_, _ = ok.Fprintln(pp.Writer(), "no issues")
		return
	}
	warn := color.New(color.FgHiYellow)
	for _, i := range issues {
		_, _ = warn.Fprintf(pp.Writer(), "%s %s\n", warnSign, i.String())
	}
}

// Warnings prints rebuild warnings wrapped to 80 columns.
func (pp *PrettyPrint) Warnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	warn := color.New(color.FgHiYellow)
	pp.TitleWithCount("Warnings", len(warnings))
	for _, w := range warnings {
		_, _ = warn.Fprintln(pp.Writer(), indent.String(wordwrap.String(w, 76), 2))
	}
}

func (pp *PrettyPrint) preview(text string) string {
	width := pp.Preview
	if width <= 0 {
		width = DefaultPreview
	}
	return Preview(text, width)
}

// Label is the one line title of an entry, e.g. "Entry 12 (3x) ⚠ (2 lines > 1)".
func Label(v session.EntryView) string {
	label := fmt.Sprintf("Entry %d (%dx)", v.Number, v.Count)
	if len(v.Issues) > 0 {
		label += fmt.Sprintf(" %s (%s)", warnSign, check.Summary(v.Issues))
	}
	return label
}

// Preview flattens text onto one line and truncates it to width cells.
func Preview(text string, width int) string {
	flat := strings.ReplaceAll(text, "\r\n", "\n")
	flat = strings.ReplaceAll(flat, "\n", " "+newline+" ")
	return runewidth.Truncate(flat, width, ellipsis)
}
