package revert

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

// Revert restores an entry to the text it was loaded with.
type Revert struct {
	Number int

	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

func (n *Revert) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not revert, no persistence")
	}
	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}
	view, err := show.Find(s, n.Number)
	if err != nil {
		return err
	}
	if err := s.Revert(view.Key); err != nil {
		return err
	}

	view, _ = s.Entry(view.Key)
	if n.Output == "json" {
		return printers.JSON(n.Out, view)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Entry(view)
	return nil
}
