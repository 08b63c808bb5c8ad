package load

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

// Load makes a CSV file the working session.
type Load struct {
	Path        string
	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

type summary struct {
	Source  string `json:"source"`
	Rows    int    `json:"rows"`
	Entries int    `json:"entries"`
	Pages   int    `json:"pages"`
}

func (n *Load) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not load, no persistence")
	}

	s, err := session.Start(ctx, n.Config, n.Persistence, n.Path)
	if err != nil {
		return err
	}

	sum := summary{
		Source:  n.Path,
		Rows:    len(s.Rows()),
		Entries: s.Index().Entries.Len(),
		Pages:   s.PageCount(),
	}
	if n.Output == "json" {
		return printers.JSON(n.Out, sum)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.TitleWithCount(n.Path, sum.Entries)
	_, _ = fmt.Fprintf(pp.Writer(), "%d rows, %d pages of %d\n", sum.Rows, sum.Pages, s.Config().EntriesPerPage)
	return nil
}
