// Package session owns the state of one editing session: the loaded rows, the
// deduplicated entries, the filter, sort and page position, and the edits made
// so far. Presentation code drives a Session with plain values and never holds
// state of its own.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tableflip.dev/buttercsv/pkg/check"
	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/dedupe"
	"tableflip.dev/buttercsv/pkg/order"
	"tableflip.dev/buttercsv/pkg/rebuild"
	"tableflip.dev/buttercsv/pkg/table"
)

// ErrNotLoaded is returned by operations that need rows.
var ErrNotLoaded = errors.New("session: no table loaded")

// Autosaver writes the recovery copy of the entries.
type Autosaver interface {
	Autosave(entries *dedupe.Entries) error
}

// Journal records edits so a later process can replay them.
type Journal interface {
	SaveEdit(key, value string) error
	DropEdit(key string) error
}

// Edit replaces the text of the entry whose original text is Key.
type Edit struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Result is the outcome of one applied edit.
type Result struct {
	Key    string        `json:"key"`
	Number int           `json:"number"`
	Issues []check.Issue `json:"issues,omitempty"`
}

// UnknownKeyError rejects a transaction that names keys not in the session.
type UnknownKeyError struct {
	Keys []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("session: %d unknown entr%s: %s", len(e.Keys), plural(len(e.Keys)), strings.Join(quoteAll(e.Keys), ", "))
}

// EntryView is what a presentation layer shows for one entry.
type EntryView struct {
	Key    string        `json:"key"`
	Value  string        `json:"value"`
	Number int           `json:"number"`
	Count  int           `json:"count"`
	Edited bool          `json:"edited"`
	Issues []check.Issue `json:"issues,omitempty"`
}

// Session is single threaded; callers run one operation at a time.
type Session struct {
	cfg       config.Config
	autosaver Autosaver
	journal   Journal
	log       *slog.Logger

	rows  []table.Row
	index *dedupe.Index
	keys  []string

	page          int
	minDuplicates int
	descending    bool
}

// New creates an empty session. autosaver may be nil.
func New(cfg config.Config, autosaver Autosaver) *Session {
	cfg = cfg.Normalize()
	return &Session{
		cfg:           cfg,
		autosaver:     autosaver,
		log:           slog.Default(),
		index:         dedupe.Build(nil, cfg.Filter()),
		minDuplicates: cfg.MinDuplicates,
		descending:    cfg.SortDescending,
	}
}

// SetJournal makes every later edit persist through j.
func (s *Session) SetJournal(j Journal) {
	s.journal = j
}

// SetLogger replaces the logger used for advisory messages.
func (s *Session) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// Config is the configuration the session runs with.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Load replaces the rows and rebuilds the index wholesale. The filter and sort
// settings are kept and the page is reset.
func (s *Session) Load(rows []table.Row) {
	s.rows = rows
	s.index = dedupe.Build(rows, s.cfg.Filter())
	s.recompute()
	s.log.Debug("session loaded", "rows", len(rows), "entries", s.index.Entries.Len())
}

// Loaded reports whether rows have been loaded.
func (s *Session) Loaded() bool {
	return s.rows != nil
}

// Rows returns the loaded rows.
func (s *Session) Rows() []table.Row {
	return s.rows
}

// Index returns the current index. Callers must not modify it.
func (s *Session) Index() *dedupe.Index {
	return s.index
}

func (s *Session) recompute() {
	s.keys = order.Compute(s.index, s.minDuplicates, s.descending)
	s.page = 0
}

// SetFilter shows only entries shared by at least min rows.
func (s *Session) SetFilter(min int) {
	if min < 0 {
		min = 0
	}
	s.minDuplicates = min
	s.recompute()
}

// MinDuplicates is the active filter threshold.
func (s *Session) MinDuplicates() int {
	return s.minDuplicates
}

// SetDescending picks the sort direction.
func (s *Session) SetDescending(descending bool) {
	s.descending = descending
	s.recompute()
}

// ToggleSort flips the sort direction and returns the new one.
func (s *Session) ToggleSort() bool {
	s.SetDescending(!s.descending)
	return s.descending
}

// Descending reports the sort direction.
func (s *Session) Descending() bool {
	return s.descending
}

// Order returns the filtered, sorted keys.
func (s *Session) Order() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Page is the 0-based current page.
func (s *Session) Page() int {
	return s.page
}

// PageCount is the number of pages in the current order.
func (s *Session) PageCount() int {
	return order.PageCount(len(s.keys), s.cfg.EntriesPerPage)
}

// Seek moves to page p when it exists.
func (s *Session) Seek(p int) bool {
	if p < 0 || p >= s.PageCount() {
		return false
	}
	s.page = p
	return true
}

// Next advances one page when there is one.
func (s *Session) Next() bool {
	if (s.page+1)*s.cfg.EntriesPerPage >= len(s.keys) {
		return false
	}
	s.page++
	return true
}

// Prev goes back one page when possible.
func (s *Session) Prev() bool {
	if s.page == 0 {
		return false
	}
	s.page--
	return true
}

// View returns the entries on the current page.
func (s *Session) View() []EntryView {
	return s.ViewPage(s.page)
}

// ViewPage returns the entries on page p.
func (s *Session) ViewPage(p int) []EntryView {
	keys := order.Page(s.keys, p, s.cfg.EntriesPerPage)
	views := make([]EntryView, 0, len(keys))
	for _, key := range keys {
		view, _ := s.Entry(key)
		views = append(views, view)
	}
	return views
}

// Entry returns the view of a single key.
func (s *Session) Entry(key string) (EntryView, bool) {
	value, ok := s.index.Entries.Get(key)
	if !ok {
		return EntryView{}, false
	}
	return EntryView{
		Key:    key,
		Value:  value,
		Number: s.index.Number(key),
		Count:  s.index.Count(key),
		Edited: s.index.Entries.Edited(key),
		Issues: s.Check(value),
	}, true
}

// Lookup finds the key shown to users as "Entry number".
func (s *Session) Lookup(number int) (string, bool) {
	if number < 1 || number > len(s.rows) {
		return "", false
	}
	key := dedupe.Key(s.rows[number-1].Target)
	if s.index.Number(key) != number {
		return "", false
	}
	return key, true
}

// Check validates text with the session limits.
func (s *Session) Check(text string) []check.Issue {
	return s.cfg.Checker().Check(text)
}

// Apply stores one edit. See ApplyAll.
func (s *Session) Apply(e Edit) (Result, error) {
	results, err := s.ApplyAll([]Edit{e})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// ApplyAll applies edits as one transaction. Every key is checked first; if
// any is unknown nothing changes. Values are trimmed. All edits are journaled
// before any is set in memory, and a journal failure undoes the journal writes
// already made, so either every edit lands or none does. Issues found in the
// new text are returned and logged but never block the edit. A later edit of
// the same key wins. The recovery file is refreshed afterwards.
func (s *Session) ApplyAll(edits []Edit) ([]Result, error) {
	if !s.Loaded() {
		return nil, ErrNotLoaded
	}

	var unknown []string
	for _, e := range edits {
		if !s.index.Entries.Has(e.Key) {
			unknown = append(unknown, e.Key)
		}
	}
	if len(unknown) > 0 {
		err := &UnknownKeyError{Keys: unknown}
		s.log.Warn("edit transaction rejected", "edits", len(edits), "err", err)
		return nil, err
	}

	values := make([]string, len(edits))
	journaled := make([]Edit, 0, len(edits))
	for i, e := range edits {
		values[i] = strings.TrimSpace(e.Value)
		prev, _ := s.index.Entries.Get(e.Key)
		if err := s.record(e.Key, values[i]); err != nil {
			s.rollback(journaled)
			s.log.Warn("edit transaction rejected", "edits", len(edits), "err", err)
			return nil, err
		}
		journaled = append(journaled, Edit{Key: e.Key, Value: prev})
	}

	results := make([]Result, 0, len(edits))
	for i, e := range edits {
		s.index.Entries.Set(e.Key, values[i])

		issues := s.Check(values[i])
		if len(issues) > 0 {
			s.log.Warn("entry has issues", "entry", s.index.Number(e.Key), "issues", check.Summary(issues))
		}
		results = append(results, Result{Key: e.Key, Number: s.index.Number(e.Key), Issues: issues})
	}

	s.autosave()
	return results, nil
}

// rollback restores journaled entries to the values they held before, newest
// first.
func (s *Session) rollback(journaled []Edit) {
	for i := len(journaled) - 1; i >= 0; i-- {
		e := journaled[i]
		if err := s.record(e.Key, e.Value); err != nil {
			s.log.Error("journal rollback failed", "key", e.Key, "err", err)
		}
	}
}

// Revert restores an entry to its original text.
func (s *Session) Revert(key string) error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	if !s.index.Entries.Has(key) {
		return &UnknownKeyError{Keys: []string{key}}
	}
	if err := s.record(key, key); err != nil {
		return err
	}
	s.index.Entries.Set(key, key)
	s.autosave()
	return nil
}

// Replay re-applies edits recorded by an earlier process without journaling
// or autosaving them again. Keys that no longer exist are skipped and counted.
func (s *Session) Replay(edits []Edit) (skipped int) {
	for _, e := range edits {
		if !s.index.Entries.Has(e.Key) {
			s.log.Warn("skipping stale edit", "key", e.Key)
			skipped++
			continue
		}
		s.index.Entries.Set(e.Key, e.Value)
	}
	return skipped
}

func (s *Session) record(key, value string) error {
	if s.journal == nil {
		return nil
	}
	if value == key {
		return s.journal.DropEdit(key)
	}
	return s.journal.SaveEdit(key, value)
}

// Save writes the recovery file now and reports a failure to the caller.
func (s *Session) Save() error {
	if s.autosaver == nil {
		return errors.New("session: no autosave destination")
	}
	return s.autosaver.Autosave(s.index.Entries)
}

// autosave refreshes the recovery file; failures are only logged.
func (s *Session) autosave() {
	if s.autosaver == nil {
		return
	}
	if err := s.autosaver.Autosave(s.index.Entries); err != nil {
		s.log.Error("autosave failed", "err", err)
	}
}

// Rebuild produces the full output table from the current entries.
func (s *Session) Rebuild() ([]rebuild.OutputRow, []string) {
	e := rebuild.Engine{Wrapper: s.cfg.Wrapper()}
	return e.Rebuild(s.rows, s.index.Entries)
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}
