package store

import (
	"io"

	"tableflip.dev/buttercsv/pkg/rebuild"
	"tableflip.dev/buttercsv/pkg/table"
)

// Report describes a completed final save.
type Report struct {
	Path     string   `json:"path"`
	Rows     int      `json:"rows"`
	Warnings []string `json:"warnings,omitempty"`
}

// FinalSave writes the rebuilt table to path: the location,source,target
// header and then each row's fields joined by commas. Fields are written
// exactly as rebuild encoded them.
func FinalSave(path string, rows []rebuild.OutputRow, warnings []string) (Report, error) {
	err := writeAtomic(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, table.Header+"\n"); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := io.WriteString(w, row.Line()+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return Report{Path: path, Rows: len(rows), Warnings: warnings}, nil
}
