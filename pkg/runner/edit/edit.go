package edit

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/printers"
	"tableflip.dev/buttercsv/pkg/runner/show"
	"tableflip.dev/buttercsv/pkg/session"
	"tableflip.dev/buttercsv/pkg/store"
)

// Edit replaces the text of one entry.
type Edit struct {
	Number int
	Text   string
	// Prompt, when set, is asked for the new text instead of using Text.
	Prompt func(view session.EntryView) (string, error)

	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not edit, no persistence")
	}
	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}
	view, err := show.Find(s, n.Number)
	if err != nil {
		return err
	}

	text := n.Text
	if n.Prompt != nil {
		if text, err = n.Prompt(view); err != nil {
			return err
		}
	}

	res, err := s.Apply(session.Edit{Key: view.Key, Value: text})
	if err != nil {
		return err
	}
	if n.Output == "json" {
		return printers.JSON(n.Out, res)
	}

	view, _ = s.Entry(view.Key)
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Entry(view)
	pp.Issues(res.Issues)
	return nil
}
