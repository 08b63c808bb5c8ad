// Package table reads the three-column localization CSV that the editor works on.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column names the input header must carry.
const (
	ColumnLocation = "location"
	ColumnSource   = "source"
	ColumnTarget   = "target"
)

// Header is the literal header line written for rebuilt files.
const Header = ColumnLocation + "," + ColumnSource + "," + ColumnTarget

// Row is one record of the source table. Rows keep their input order.
type Row struct {
	Location string `json:"location"`
	Source   string `json:"source"`
	Target   string `json:"target"`
}

// ParseError reports a source CSV that could not be read or understood.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("table: parse %s line %d: %v", where, e.Line, e.Err)
	}
	return fmt.Sprintf("table: parse %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadFile loads every row of the CSV at path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return rows, nil
}

// Read parses CSV from r. A UTF-8 byte order mark is dropped. The header must
// name the location, source and target columns; any other columns are ignored.
func Read(r io.Reader) ([]Row, error) {
	cr := NewCSVReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: errors.New("missing header row")}
		}
		return nil, &ParseError{Line: lineOf(err), Err: err}
	}

	cols, err := columns(header)
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	rows := make([]Row, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: lineOf(err), Err: err}
		}
		rows = append(rows, Row{
			Location: field(record, cols[ColumnLocation]),
			Source:   field(record, cols[ColumnSource]),
			Target:   field(record, cols[ColumnTarget]),
		})
	}
	return rows, nil
}

// NewCSVReader returns a csv reader over r that drops a UTF-8 byte order mark
// and keeps CRLF line breaks inside quoted fields.
func NewCSVReader(r io.Reader) *csv.Reader {
	return csv.NewReader(transform.NewReader(r, transform.Chain(
		unicode.BOMOverride(unicode.UTF8.NewDecoder()),
		&quotedCRLF{},
	)))
}

// quotedCRLF doubles the carriage return of every CRLF inside a quoted field.
// The csv reader folds CRLF to LF at each line end, so the doubled CR comes
// back out as the field's original CRLF. Record separators are left alone.
type quotedCRLF struct {
	quoted bool
}

func (q *quotedCRLF) Reset() { q.quoted = false }

func (q *quotedCRLF) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c == '\r' && q.quoted {
			if nSrc+1 == len(src) && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if nSrc+1 < len(src) && src[nSrc+1] == '\n' {
				if nDst+3 > len(dst) {
					return nDst, nSrc, transform.ErrShortDst
				}
				copy(dst[nDst:], "\r\r\n")
				nDst += 3
				nSrc += 2
				continue
			}
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		if c == '"' {
			q.quoted = !q.quoted
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

func columns(header []string) (map[string]int, error) {
	cols := make(map[string]int, 3)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	var missing []string
	for _, want := range []string{ColumnLocation, ColumnSource, ColumnTarget} {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header missing column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func lineOf(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}
