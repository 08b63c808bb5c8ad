package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/buttercsv/pkg/dedupe"
	"tableflip.dev/buttercsv/pkg/table"
)

// Pair is one key,value line of a two-column edit file.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Autosaver keeps the crash recovery copy of the entry map.
type Autosaver struct {
	Path string
}

// Autosave overwrites the recovery file with every entry, one key,value row
// each, in entry order.
func (a Autosaver) Autosave(entries *dedupe.Entries) error {
	if a.Path == "" {
		return errors.New("store: autosave path unknown")
	}
	return writeAtomic(a.Path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		var werr error
		if entries == nil {
			return nil
		}
		entries.Each(func(key, value string) bool {
			werr = cw.Write([]string{key, value})
			return werr == nil
		})
		if werr != nil {
			return werr
		}
		cw.Flush()
		return cw.Error()
	})
}

// ReadPairs parses a two-column key,value CSV, such as a recovery file.
func ReadPairs(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePairs(f)
}

// DecodePairs parses two-column key,value CSV from r.
func DecodePairs(r io.Reader) ([]Pair, error) {
	cr := table.NewCSVReader(r)
	cr.FieldsPerRecord = 2

	var pairs []Pair
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return pairs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("store: read pairs: %w", err)
		}
		pairs = append(pairs, Pair{Key: record[0], Value: record[1]})
	}
}
