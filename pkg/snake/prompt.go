// Package snake holds the interactive prompts behind the -i flags.
package snake

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/buttercsv/pkg/check"
	"tableflip.dev/buttercsv/pkg/printers"
	"tableflip.dev/buttercsv/pkg/session"
)

// PromptEntry lets the user pick one of views.
func PromptEntry(cmd *cobra.Command, views []session.EntryView) (session.EntryView, error) {
	if len(views) == 0 {
		return session.EntryView{}, fmt.Errorf("no entries to choose from")
	}

	type item struct {
		Label   string
		Preview string
		Text    string
	}
	items := make([]item, len(views))
	for i, v := range views {
		items[i] = item{Label: printers.Label(v), Preview: printers.Preview(v.Value, 40), Text: v.Value}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Label | bold }} {{ .Preview | green }}",
		Inactive: "   {{ .Label }} {{ .Preview | cyan }}",
		Selected: "{{ .Label | bold }}",
		Details: `
--------- Text ----------
{{ .Text }}
`,
	}

	searcher := func(input string, index int) bool {
		text := strings.ToLower(items[index].Text)
		return strings.Contains(text, strings.ToLower(strings.TrimSpace(input)))
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Entry",
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}

	i, _, err := prompt.Run()
	if err != nil {
		return session.EntryView{}, err
	}
	return views[i], nil
}

// PromptText asks for the new text of view. Line breaks are typed as \n.
// Issues in the answer are printed but do not reject it.
func PromptText(cmd *cobra.Command, view session.EntryView, checker check.Checker) (string, error) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), printers.Label(view))

	templates := &promptui.PromptTemplates{
		Prompt:  "Text {{ . }} : ",
		Valid:   "Text {{ . | green }} : ",
		Invalid: "Text {{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("(%dx)", view.Count),
		Templates: templates,
		Default:   Escape(view.Value),
		AllowEdit: true,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	text := Unescape(result)

	if issues := checker.Check(text); len(issues) > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saving with issues: %s\n", check.Summary(issues))
	}
	return text, nil
}

// Escape shows line breaks as \n so text fits a single line prompt.
func Escape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, "\n", `\n`)
}

// Unescape reverses Escape.
func Unescape(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) {
			switch text[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
