package show

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/printers"
	"tableflip.dev/buttercsv/pkg/session"
	"tableflip.dev/buttercsv/pkg/store"
)

// ErrNoEntry is returned for numbers that do not name an entry.
var ErrNoEntry = errors.New("no such entry")

// Show prints a single entry in full.
type Show struct {
	Number int

	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not show, no persistence")
	}
	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}
	view, err := Find(s, n.Number)
	if err != nil {
		return err
	}

	if n.Output == "json" {
		return printers.JSON(n.Out, view)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Entry(view)
	return nil
}

// Find returns the entry numbered number.
func Find(s *session.Session, number int) (session.EntryView, error) {
	key, ok := s.Lookup(number)
	if !ok {
		return session.EntryView{}, fmt.Errorf("%w: %d", ErrNoEntry, number)
	}
	view, _ := s.Entry(key)
	return view, nil
}
