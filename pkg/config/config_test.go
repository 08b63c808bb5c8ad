package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func fromYAML(t *testing.T, doc string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(doc)); err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	return FromViper(v)
}

func TestDefaults(t *testing.T) {
	c := FromViper(viper.New())
	if c.EntriesPerPage != 50 || c.WrapLimit != 28 || c.MaxLines != 3 {
		t.Fatalf("unexpected numeric defaults %+v", c)
	}
	if c.MinDuplicates != 0 || !c.SortDescending {
		t.Fatalf("unexpected filter defaults %+v", c)
	}
	if c.ColorMarker != '‾' || c.ColorReset != "00" {
		t.Fatalf("unexpected color defaults %q %q", c.ColorMarker, c.ColorReset)
	}
	if len(c.DummyKeywords) != 4 {
		t.Fatalf("expected default dummy keywords, got %v", c.DummyKeywords)
	}
	if c.AutosavePath != DefaultAutosavePath {
		t.Fatalf("unexpected autosave path %q", c.AutosavePath)
	}
}

func TestValuesFromYAML(t *testing.T) {
	c := fromYAML(t, `
entries_per_page: 20
wrap_limit: "40"
max_lines: 2
min_duplicates: 3
sort_descending: false
dummy_keywords: [TODO, " tbd ", ""]
color_marker: "^"
color_reset: ff
`)
	if c.EntriesPerPage != 20 || c.WrapLimit != 40 || c.MaxLines != 2 || c.MinDuplicates != 3 {
		t.Fatalf("unexpected numbers %+v", c)
	}
	if c.SortDescending {
		t.Fatalf("expected ascending")
	}
	if !reflect.DeepEqual(c.DummyKeywords, []string{"TODO", "tbd"}) {
		t.Fatalf("unexpected keywords %v", c.DummyKeywords)
	}
	if c.ColorMarker != '^' || c.ColorReset != "FF" {
		t.Fatalf("unexpected color settings %q %q", c.ColorMarker, c.ColorReset)
	}
	if got := c.Tags().Strip("^C12x^CFF"); got != "x" {
		t.Fatalf("configured tags not applied, got %q", got)
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	c := fromYAML(t, `
entries_per_page: abc
wrap_limit: 0
max_lines: -2
min_duplicates: -1
sort_descending: maybe
color_marker: "ab"
color_reset: "0G"
`)
	d := Default()
	if c.EntriesPerPage != d.EntriesPerPage || c.WrapLimit != d.WrapLimit || c.MaxLines != d.MaxLines {
		t.Fatalf("expected numeric defaults, got %+v", c)
	}
	if c.MinDuplicates != 0 || !c.SortDescending {
		t.Fatalf("expected filter defaults, got %+v", c)
	}
	if c.ColorMarker != d.ColorMarker || c.ColorReset != d.ColorReset {
		t.Fatalf("expected color defaults, got %q %q", c.ColorMarker, c.ColorReset)
	}
}

func TestLoadFromConfigPathAndEnv(t *testing.T) {
	dir := t.TempDir()
	doc := []byte("wrap_limit: 30\nmax_lines: 4\n")
	if err := os.WriteFile(filepath.Join(dir, ".buttercsv.yaml"), doc, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BUTTERCSV_CONFIG_PATH", dir)
	t.Setenv("BUTTERCSV_MAX_LINES", "5")
	t.Setenv("BUTTERCSV_ENTRIES_PER_PAGE", "nope")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.WrapLimit != 30 {
		t.Fatalf("expected wrap limit from file, got %d", c.WrapLimit)
	}
	if c.MaxLines != 5 {
		t.Fatalf("expected env to win, got %d", c.MaxLines)
	}
	if c.EntriesPerPage != DefaultEntriesPerPage {
		t.Fatalf("expected default page size, got %d", c.EntriesPerPage)
	}
	if c.File == "" {
		t.Fatalf("expected config file to be reported")
	}
}

func TestNormalize(t *testing.T) {
	c := Config{WrapLimit: 10}.Normalize()
	if c.WrapLimit != 10 || c.MaxLines != DefaultMaxLines || c.EntriesPerPage != DefaultEntriesPerPage {
		t.Fatalf("unexpected normalized config %+v", c)
	}
	if c.ColorMarker != '‾' || c.ColorReset != "00" || c.SessionPath == "" {
		t.Fatalf("unexpected normalized config %+v", c)
	}
}

func TestParseHelpers(t *testing.T) {
	if ParsePositive("12", 50) != 12 || ParsePositive("x", 50) != 50 || ParsePositive("0", 50) != 50 {
		t.Fatalf("ParsePositive mismatch")
	}
	if ParseNonNegative("0", 7) != 0 || ParseNonNegative("-1", 7) != 7 || ParseNonNegative("", 7) != 7 {
		t.Fatalf("ParseNonNegative mismatch")
	}
}

func TestLeadingZerosAreDecimal(t *testing.T) {
	c := fromYAML(t, `
wrap_limit: "010"
entries_per_page: " 020 "
max_lines: "0x4"
`)
	if c.WrapLimit != 10 || c.EntriesPerPage != 20 {
		t.Fatalf("expected decimal parsing, got %+v", c)
	}
	if c.MaxLines != DefaultMaxLines {
		t.Fatalf("expected hex string to fall back, got %d", c.MaxLines)
	}
	if ParsePositive("007", 50) != 7 {
		t.Fatalf("ParsePositive should read decimal")
	}
}

func TestLoadBrokenFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".buttercsv.yaml"), []byte("wrap_limit: [oops\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BUTTERCSV_CONFIG_PATH", dir)
	t.Setenv("BUTTERCSV_MAX_LINES", "5")

	c, err := Load()
	if err == nil {
		t.Fatalf("expected the parse error to be reported")
	}
	if c.WrapLimit != DefaultWrapLimit || c.EntriesPerPage != DefaultEntriesPerPage {
		t.Fatalf("expected defaults, got %+v", c)
	}
	if c.MaxLines != 5 {
		t.Fatalf("expected environment to apply, got %d", c.MaxLines)
	}
}
