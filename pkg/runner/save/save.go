package save

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

// Save writes the recovery file on demand.
type Save struct {
	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

func (n *Save) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not save, no persistence")
	}
	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	path := s.Config().AutosavePath
	if n.Output == "json" {
		return printers.JSON(n.Out, map[string]interface{}{
			"path":    path,
			"entries": s.Index().Entries.Len(),
		})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	_, _ = fmt.Fprintf(pp.Writer(), "Saved %d entries to %s\n", s.Index().Entries.Len(), path)
	return nil
}
