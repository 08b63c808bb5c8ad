package check

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/printers"
	"tableflip.dev/buttercsv/pkg/session"
	"tableflip.dev/buttercsv/pkg/store"
)

// Check validates free text, or every entry of the session when Text is nil.
type Check struct {
	Text *string

	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

func (n *Check) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{Out: n.Out}

	if n.Text != nil {
		issues := n.Config.Normalize().Checker().Check(*n.Text)
		if n.Output == "json" {
			return printers.JSON(n.Out, issues)
		}
		pp.Issues(issues)
		return nil
	}

	if n.Persistence == nil {
		return errors.New("can not check, no persistence")
	}
	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}

	flagged := make([]session.EntryView, 0)
	for _, key := range s.Index().Entries.Keys() {
		if view, ok := s.Entry(key); ok && len(view.Issues) > 0 {
			flagged = append(flagged, view)
		}
	}

	if n.Output == "json" {
		return printers.JSON(n.Out, flagged)
	}
	pp.TitleWithCount("Entries with issues", len(flagged))
	for _, v := range flagged {
		_, _ = io.WriteString(pp.Writer(), printers.Label(v)+"\n")
	}
	return nil
}
