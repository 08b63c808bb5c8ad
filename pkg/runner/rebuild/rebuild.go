package rebuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/printers"
	"tableflip.dev/buttercsv/pkg/session"
	"tableflip.dev/buttercsv/pkg/store"
)

// Rebuild writes the full output table to Destination.
type Rebuild struct {
	Destination string

	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

func (n *Rebuild) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not rebuild, no persistence")
	}
	if strings.TrimSpace(n.Destination) == "" {
		return errors.New("rebuild requires an output path")
	}
	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}

	rows, warnings := s.Rebuild()
	report, err := store.FinalSave(n.Destination, rows, warnings)
	if err != nil {
		return err
	}

	if n.Output == "json" {
		return printers.JSON(n.Out, report)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	_, _ = fmt.Fprintf(pp.Writer(), "Wrote %d rows to %s\n", report.Rows, report.Path)
	pp.Warnings(report.Warnings)
	return nil
}
