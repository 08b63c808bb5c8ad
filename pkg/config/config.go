// Package config builds the single validated configuration used by every
// command. Values come from an optional .buttercsv.yaml and BUTTERCSV_*
// environment variables; anything malformed falls back to its default.
package config

import (
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"tableflip.dev/buttercsv/pkg/check"
	"tableflip.dev/buttercsv/pkg/colortag"
	"tableflip.dev/buttercsv/pkg/dedupe"
	"tableflip.dev/buttercsv/pkg/wrap"
)

// Keys understood in the config file and, upper-cased with the BUTTERCSV_
// prefix, in the environment.
const (
	KeyEntriesPerPage = "entries_per_page"
	KeyWrapLimit      = "wrap_limit"
	KeyMaxLines       = "max_lines"
	KeyMinDuplicates  = "min_duplicates"
	KeySortDescending = "sort_descending"
	KeyDummyKeywords  = "dummy_keywords"
	KeyColorMarker    = "color_marker"
	KeyColorReset     = "color_reset"
	KeyAutosavePath   = "autosave_path"
	KeySessionPath    = "session_path"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
)

// Defaults.
const (
	DefaultEntriesPerPage = 50
	DefaultWrapLimit      = 28
	DefaultMaxLines       = 3
	DefaultMinDuplicates  = 0
	DefaultSortDescending = true
	DefaultAutosavePath   = "_autosave_translation_cache.csv"
	DefaultSessionPath    = "~/.buttercsv"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"

	envPrefix     = "BUTTERCSV"
	configName    = ".buttercsv"
	configPathEnv = "BUTTERCSV_CONFIG_PATH"
)

// Config is the validated configuration.
type Config struct {
	EntriesPerPage int      `json:"entriesPerPage"`
	WrapLimit      int      `json:"wrapLimit"`
	MaxLines       int      `json:"maxLines"`
	MinDuplicates  int      `json:"minDuplicatesFilter"`
	SortDescending bool     `json:"sortDescending"`
	DummyKeywords  []string `json:"dummyKeywords"`
	ColorMarker    rune     `json:"colorMarker"`
	ColorReset     string   `json:"colorReset"`
	AutosavePath   string   `json:"autosavePath"`
	SessionPath    string   `json:"sessionPath"`
	LogLevel       string   `json:"logLevel"`
	LogFormat      string   `json:"logFormat"`

	// File is the config file that was read, if any.
	File string `json:"file,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		EntriesPerPage: DefaultEntriesPerPage,
		WrapLimit:      DefaultWrapLimit,
		MaxLines:       DefaultMaxLines,
		MinDuplicates:  DefaultMinDuplicates,
		SortDescending: DefaultSortDescending,
		DummyKeywords:  dedupe.DefaultDummyKeywords(),
		ColorMarker:    colortag.DefaultMarker,
		ColorReset:     colortag.DefaultReset,
		AutosavePath:   DefaultAutosavePath,
		SessionPath:    expand(DefaultSessionPath),
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// Load reads .buttercsv.yaml from the working directory or from
// $BUTTERCSV_CONFIG_PATH, layers the environment over it and validates the
// result. A missing config file is not an error. A file that cannot be parsed
// is reported, and the returned Config still carries defaults and environment
// values so callers can warn and carry on.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if override := os.Getenv(configPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return FromViper(v), err
		}
	}
	return FromViper(v), nil
}

// FromViper validates whatever v holds into a Config.
func FromViper(v *viper.Viper) Config {
	d := Default()
	c := Config{
		EntriesPerPage: positive(v.Get(KeyEntriesPerPage), d.EntriesPerPage),
		WrapLimit:      positive(v.Get(KeyWrapLimit), d.WrapLimit),
		MaxLines:       positive(v.Get(KeyMaxLines), d.MaxLines),
		MinDuplicates:  nonNegative(v.Get(KeyMinDuplicates), d.MinDuplicates),
		SortDescending: boolean(v.Get(KeySortDescending), d.SortDescending),
		DummyKeywords:  d.DummyKeywords,
		ColorMarker:    marker(v.Get(KeyColorMarker), d.ColorMarker),
		ColorReset:     reset(v.Get(KeyColorReset), d.ColorReset),
		AutosavePath:   str(v.Get(KeyAutosavePath), d.AutosavePath),
		SessionPath:    expand(str(v.Get(KeySessionPath), d.SessionPath)),
		LogLevel:       str(v.Get(KeyLogLevel), d.LogLevel),
		LogFormat:      str(v.Get(KeyLogFormat), d.LogFormat),
		File:           v.ConfigFileUsed(),
	}
	if v.IsSet(KeyDummyKeywords) {
		c.DummyKeywords = keywords(v.Get(KeyDummyKeywords), d.DummyKeywords)
	}
	return c
}

// Normalize replaces out of range values with defaults.
func (c Config) Normalize() Config {
	d := Default()
	if c.EntriesPerPage < 1 {
		c.EntriesPerPage = d.EntriesPerPage
	}
	if c.WrapLimit < 1 {
		c.WrapLimit = d.WrapLimit
	}
	if c.MaxLines < 1 {
		c.MaxLines = d.MaxLines
	}
	if c.MinDuplicates < 0 {
		c.MinDuplicates = d.MinDuplicates
	}
	if c.DummyKeywords == nil {
		c.DummyKeywords = d.DummyKeywords
	}
	if c.ColorMarker == 0 || c.ColorMarker == utf8.RuneError {
		c.ColorMarker = d.ColorMarker
	}
	c.ColorReset = reset(c.ColorReset, d.ColorReset)
	if c.AutosavePath == "" {
		c.AutosavePath = d.AutosavePath
	}
	if c.SessionPath == "" {
		c.SessionPath = d.SessionPath
	}
	return c
}

// Tags is the color tag grammar.
func (c Config) Tags() colortag.Syntax {
	return colortag.New(c.ColorMarker, c.ColorReset)
}

// Checker validates text with the configured limits.
func (c Config) Checker() check.Checker {
	return check.Checker{WrapLimit: c.WrapLimit, MaxLines: c.MaxLines, Tags: c.Tags()}
}

// Wrapper wraps text with the configured limits.
func (c Config) Wrapper() wrap.Wrapper {
	return wrap.Wrapper{Limit: c.WrapLimit, MaxLines: c.MaxLines, Tags: c.Tags()}
}

// Filter selects editable targets.
func (c Config) Filter() dedupe.Filter {
	return dedupe.Filter{DummyKeywords: c.DummyKeywords}
}

// ParsePositive parses s as a positive integer, returning def otherwise.
func ParsePositive(s string, def int) int {
	return positive(s, def)
}

// ParseNonNegative parses s as a non-negative integer, returning def otherwise.
func ParseNonNegative(s string, def int) int {
	return nonNegative(s, def)
}

func positive(raw interface{}, def int) int {
	n, ok := integer(raw)
	if !ok || n < 1 {
		return def
	}
	return n
}

func nonNegative(raw interface{}, def int) int {
	n, ok := integer(raw)
	if !ok || n < 0 {
		return def
	}
	return n
}

func integer(raw interface{}) (int, bool) {
	if raw == nil {
		return 0, false
	}
	// cast reads strings with base prefixes, so "010" would be 8.
	if s, ok := raw.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func boolean(raw interface{}, def bool) bool {
	if raw == nil {
		return def
	}
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return def
	}
	return b
}

func str(raw interface{}, def string) string {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func marker(raw interface{}, def rune) rune {
	s := str(raw, "")
	if s == "" {
		return def
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return def
	}
	return r
}

func reset(raw interface{}, def string) string {
	s := strings.ToUpper(str(raw, ""))
	if len(s) != 2 || strings.Trim(s, "0123456789ABCDEF") != "" {
		return def
	}
	return s
}

func keywords(raw interface{}, def []string) []string {
	var list []string
	switch t := raw.(type) {
	case string:
		list = strings.Split(t, ",")
	default:
		var err error
		list, err = cast.ToStringSliceE(raw)
		if err != nil {
			return def
		}
	}
	out := make([]string, 0, len(list))
	for _, kw := range list {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func expand(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
