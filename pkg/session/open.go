package session

import (
	"context"
	"fmt"

	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/store"
	"tableflip.dev/buttercsv/pkg/table"
)

// Start reads path and makes it the working session in p. A file that cannot
// be parsed leaves p untouched.
func Start(ctx context.Context, cfg config.Config, p store.Persistence, path string) (*Session, error) {
	rows, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := p.SetSource(path); err != nil {
		return nil, err
	}
	s := New(cfg, store.Autosaver{Path: cfg.AutosavePath})
	s.Load(rows)
	s.SetJournal(p)
	return s, nil
}

// Open restores the working session recorded in p: the source table is read
// again and the stored edits are replayed on top of it.
func Open(ctx context.Context, cfg config.Config, p store.Persistence) (*Session, error) {
	meta, err := p.Meta()
	if err != nil {
		return nil, err
	}
	rows, err := table.ReadFile(meta.Source)
	if err != nil {
		return nil, fmt.Errorf("session: reopen %s: %w", meta.Source, err)
	}
	s := New(cfg, store.Autosaver{Path: cfg.AutosavePath})
	s.Load(rows)

	if skipped := s.Replay(Edits(p.Edits(ctx))); skipped > 0 {
		s.log.Warn("source changed since load", "source", meta.Source, "stale", skipped)
	}
	s.SetJournal(p)
	return s, nil
}

// Edits converts key,value pairs, such as a recovery file, into a transaction.
func Edits(pairs []store.Pair) []Edit {
	edits := make([]Edit, 0, len(pairs))
	for _, pair := range pairs {
		edits = append(edits, Edit{Key: pair.Key, Value: pair.Value})
	}
	return edits
}
