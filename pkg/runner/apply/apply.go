package apply

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/buttercsv/pkg/check"
	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/printers"
	"tableflip.dev/buttercsv/pkg/session"
	"tableflip.dev/buttercsv/pkg/store"
)

// Apply replays a two-column key,value file, such as a recovery file, as a
// single transaction.
type Apply struct {
	Path string
	// Confirm, when set, is asked before anything changes.
	Confirm func(count int) (bool, error)

	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

type report struct {
	Path    string           `json:"path"`
	Applied int              `json:"applied"`
	Results []session.Result `json:"results"`
}

func (n *Apply) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not apply, no persistence")
	}
	pairs, err := store.ReadPairs(n.Path)
	if err != nil {
		return err
	}
	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}

	if n.Confirm != nil {
		ok, err := n.Confirm(len(pairs))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	results, err := s.ApplyAll(session.Edits(pairs))
	if err != nil {
		return err
	}

	if n.Output == "json" {
		return printers.JSON(n.Out, report{Path: n.Path, Applied: len(results), Results: results})
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.TitleWithCount(n.Path, len(results))
	for _, r := range results {
		if len(r.Issues) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(pp.Writer(), "Entry %d: %s\n", r.Number, check.Summary(r.Issues))
	}
	return nil
}
