package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/store"
)

// Info reports where configuration and session state live.
type Info struct {
	Config      config.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("BUTTERCSV_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "BUTTERCSV_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "BUTTERCSV_CONFIG_PATH env var not set")
	}

	if n.Config.File != "" {
		_, _ = fmt.Fprintln(out, "Config.file:", n.Config.File)
	} else {
		_, _ = fmt.Fprintln(out, "Config.file: none, using defaults")
	}
	_, _ = fmt.Fprintln(out, "Config.autosave:", n.Config.AutosavePath)

	if n.Persistence == nil {
		return errors.New("failed to create persistence object")
	}
	_, _ = fmt.Fprintln(out, "Session.path:", n.Persistence.BasePath())

	meta, err := n.Persistence.Meta()
	if errors.Is(err, store.ErrNoSession) {
		_, _ = fmt.Fprintln(out, "Session: none loaded")
		return nil
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Session.source: %s (loaded %s)\n", meta.Source, meta.Loaded.Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintf(out, "Session.edits: %d\n", len(n.Persistence.Edits(ctx)))
	return nil
}
