package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadQuotedFields(t *testing.T) {
	in := "location,source,target\n" +
		"L1,S1,Hello\n" +
		"L2,\"S, two\",\"line one\nline \"\"two\"\"\"\n"

	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0] != (Row{Location: "L1", Source: "S1", Target: "Hello"}) {
		t.Fatalf("unexpected first row: %#v", rows[0])
	}
	if rows[1].Source != "S, two" {
		t.Fatalf("unexpected source: %q", rows[1].Source)
	}
	if rows[1].Target != "line one\nline \"two\"" {
		t.Fatalf("unexpected target: %q", rows[1].Target)
	}
}

func TestReadKeepsCRLFInQuotedFields(t *testing.T) {
	in := "location,source,target\r\n" +
		"L1,S1,\"一行目\r\n二行目\"\r\n" +
		"L2,S2,\"lone\rreturn\"\r\n" +
		"L3,S3,plain\r\n"

	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Target != "一行目\r\n二行目" {
		t.Fatalf("CRLF not kept: %q", rows[0].Target)
	}
	if rows[1].Target != "lone\rreturn" {
		t.Fatalf("unexpected target: %q", rows[1].Target)
	}
	if rows[2].Target != "plain" {
		t.Fatalf("record separator leaked into field: %q", rows[2].Target)
	}
}

func TestReadHeaderOrderAndBOM(t *testing.T) {
	in := "\ufeffTarget, id ,Location,source\nこんにちは,7,L1,S1\n"

	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := Row{Location: "L1", Source: "S1", Target: "こんにちは"}
	if len(rows) != 1 || rows[0] != want {
		t.Fatalf("expected %#v, got %#v", want, rows)
	}
}

func TestReadShortRecord(t *testing.T) {
	rows, err := Read(strings.NewReader("location,source,target\nL1,S1\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if rows[0].Target != "" {
		t.Fatalf("expected empty target, got %q", rows[0].Target)
	}
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "location,source\nL1,S1\n",
		"bad quote":      "location,source,target\nL1,S1,\"broken\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(in))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(path, []byte("location,source,target\nL1,S1,Hi\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	_, err = ReadFile(filepath.Join(dir, "missing.csv"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Path == "" {
		t.Fatalf("expected path on error")
	}
}
