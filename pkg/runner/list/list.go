package list

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

// List prints one page of entries.
type List struct {
	// Page is 1-based.
	Page int
	// MinDuplicates overrides the configured filter when not nil.
	MinDuplicates *int
	Ascending     bool

	Config      config.Config
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

type page struct {
	Page          int                 `json:"page"`
	Pages         int                 `json:"pages"`
	MinDuplicates int                 `json:"minDuplicates"`
	Descending    bool                `json:"descending"`
	Total         int                 `json:"total"`
	Entries       []session.EntryView `json:"entries"`
}

func (n *List) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not list, no persistence")
	}

	s, err := session.Open(ctx, n.Config, n.Persistence)
	if err != nil {
		return err
	}
	if n.MinDuplicates != nil {
		s.SetFilter(*n.MinDuplicates)
	}
	if n.Ascending {
		s.SetDescending(false)
	}

	p := n.Page
	if p < 1 {
		p = 1
	}
	if p > 1 && !s.Seek(p-1) {
		return fmt.Errorf("page %d out of range, there are %d", p, s.PageCount())
	}

	views := s.View()
	if n.Output == "json" {
		return printers.JSON(n.Out, page{
			Page:          s.Page() + 1,
			Pages:         s.PageCount(),
			MinDuplicates: s.MinDuplicates(),
			Descending:    s.Descending(),
			Total:         len(s.Order()),
			Entries:       views,
		})
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.PageTitle(s.Page(), s.PageCount(), len(views))
	pp.Page(views)
	return nil
}
