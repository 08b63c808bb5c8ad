package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/buttercsv/pkg/check"
	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/dedupe"
	"tableflip.dev/buttercsv/pkg/store"
	"tableflip.dev/buttercsv/pkg/table"
)

type recordingAutosaver struct {
	calls int
	last  map[string]string
	err   error
}

func (a *recordingAutosaver) Autosave(entries *dedupe.Entries) error {
	a.calls++
	if a.err != nil {
		return a.err
	}
	a.last = make(map[string]string)
	entries.Each(func(k, v string) bool {
		a.last[k] = v
		return true
	})
	return nil
}

type memoryPersistence struct {
	mu     sync.Mutex
	meta   *store.Meta
	edits  map[string]string
	err    error
	failOn int // the nth journal write fails, counting from 1
	writes int
}

func (m *memoryPersistence) write() error {
	m.writes++
	if m.failOn > 0 && m.writes == m.failOn {
		return errors.New("disk full")
	}
	return m.err
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{edits: make(map[string]string)}
}

func (m *memoryPersistence) Meta() (store.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta == nil {
		return store.Meta{}, store.ErrNoSession
	}
	return *m.meta, nil
}

func (m *memoryPersistence) SetSource(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta = &store.Meta{Source: path, Loaded: time.Now()}
	m.edits = make(map[string]string)
	return nil
}

func (m *memoryPersistence) Edits(_ context.Context) []store.Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Pair, 0, len(m.edits))
	for k, v := range m.edits {
		out = append(out, store.Pair{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (m *memoryPersistence) SaveEdit(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write(); err != nil {
		return err
	}
	m.edits[key] = value
	return nil
}

func (m *memoryPersistence) DropEdit(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write(); err != nil {
		return err
	}
	delete(m.edits, key)
	return nil
}

func (m *memoryPersistence) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta = nil
	m.edits = make(map[string]string)
	return nil
}

func (m *memoryPersistence) BasePath() string { return "memory" }

func sampleRows() []table.Row {
	return []table.Row{
		{Location: "L1", Source: "S1", Target: "Hello"},
		{Location: "L2", Source: "S2", Target: "Hello "},
		{Location: "L3", Source: "S3", Target: "Goodbye"},
		{Location: "L4", Source: "S4", Target: "dummy"},
	}
}

func newLoaded(t *testing.T, cfg config.Config) (*Session, *recordingAutosaver) {
	t.Helper()
	a := &recordingAutosaver{}
	s := New(cfg, a)
	s.Load(sampleRows())
	return s, a
}

func TestLoadBuildsOrder(t *testing.T) {
	s, _ := newLoaded(t, config.Default())

	if got, want := s.Order(), []string{"Hello", "Goodbye"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	if s.PageCount() != 1 || s.Page() != 0 {
		t.Fatalf("expected one page at 0, got %d at %d", s.PageCount(), s.Page())
	}

	views := s.View()
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Key != "Hello" || views[0].Number != 1 || views[0].Count != 2 || views[0].Edited {
		t.Fatalf("unexpected first view %+v", views[0])
	}
	if views[1].Key != "Goodbye" || views[1].Number != 3 || views[1].Count != 1 {
		t.Fatalf("unexpected second view %+v", views[1])
	}
}

func TestFilterAndSort(t *testing.T) {
	s, _ := newLoaded(t, config.Default())

	s.SetFilter(2)
	if got := s.Order(); !reflect.DeepEqual(got, []string{"Hello"}) {
		t.Fatalf("expected only Hello, got %v", got)
	}

	s.SetFilter(-4)
	if s.MinDuplicates() != 0 || len(s.Order()) != 2 {
		t.Fatalf("negative filter should show everything, got %d %v", s.MinDuplicates(), s.Order())
	}

	if s.ToggleSort() {
		t.Fatalf("toggle from descending should give ascending")
	}
	if got := s.Order(); !reflect.DeepEqual(got, []string{"Goodbye", "Hello"}) {
		t.Fatalf("expected ascending order, got %v", got)
	}
}

func TestPaging(t *testing.T) {
	cfg := config.Default()
	cfg.EntriesPerPage = 2
	s := New(cfg, nil)
	s.Load([]table.Row{
		{Target: "a"}, {Target: "b"}, {Target: "c"}, {Target: "d"}, {Target: "e"},
	})

	if s.PageCount() != 3 {
		t.Fatalf("expected 3 pages, got %d", s.PageCount())
	}
	if s.Prev() {
		t.Fatalf("prev on first page should fail")
	}
	if !s.Next() || !s.Next() {
		t.Fatalf("expected to reach the last page")
	}
	if s.Next() {
		t.Fatalf("next past the last page should fail")
	}
	if got := s.View(); len(got) != 1 || got[0].Key != "e" {
		t.Fatalf("expected last page to hold e, got %+v", got)
	}
	if s.Seek(3) || s.Seek(-1) {
		t.Fatalf("seek out of range should fail")
	}
	if !s.Seek(1) || s.Page() != 1 {
		t.Fatalf("seek to page 1 failed")
	}
	s.SetFilter(0)
	if s.Page() != 0 {
		t.Fatalf("filter change should reset the page, got %d", s.Page())
	}
}

func TestLookup(t *testing.T) {
	s, _ := newLoaded(t, config.Default())

	tests := []struct {
		number int
		want   string
		ok     bool
	}{
		{number: 1, want: "Hello", ok: true},
		{number: 2},
		{number: 3, want: "Goodbye", ok: true},
		{number: 4},
		{number: 0},
		{number: 9},
	}
	for _, tt := range tests {
		got, ok := s.Lookup(tt.number)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("Lookup(%d): expected %q %v, got %q %v", tt.number, tt.want, tt.ok, got, ok)
		}
	}
}

func TestApplyAndRebuild(t *testing.T) {
	s, a := newLoaded(t, config.Default())

	res, err := s.Apply(Edit{Key: "Hello", Value: "  Hi  "})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Number != 1 || len(res.Issues) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if a.calls != 1 || a.last["Hello"] != "Hi" {
		t.Fatalf("expected one autosave with the trimmed value, got %d %v", a.calls, a.last)
	}

	rows, warnings := s.Rebuild()
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, r.Line())
	}
	want := []string{`L1,S1,"Hi"`, `L2,S2,"Hi"`, `L3,S3,"Goodbye"`, `L4,S4,dummy`}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
}

func TestApplyReportsIssues(t *testing.T) {
	s, _ := newLoaded(t, config.Default())

	res, err := s.Apply(Edit{Key: "Goodbye", Value: "‾C01" + strings.Repeat("x", 30)})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(res.Issues) != 2 || res.Issues[0].Kind != check.LineTooLong || res.Issues[1].Kind != check.UnmatchedColorTag {
		t.Fatalf("unexpected issues %+v", res.Issues)
	}
	view, _ := s.Entry("Goodbye")
	if !view.Edited || len(view.Issues) != 2 {
		t.Fatalf("issues should not block the edit, got %+v", view)
	}
}

func TestApplyAllRejectsUnknownKeys(t *testing.T) {
	s, a := newLoaded(t, config.Default())

	_, err := s.ApplyAll([]Edit{
		{Key: "Hello", Value: "Hi"},
		{Key: "Missing", Value: "x"},
	})
	var uk *UnknownKeyError
	if !errors.As(err, &uk) {
		t.Fatalf("expected UnknownKeyError, got %v", err)
	}
	if !reflect.DeepEqual(uk.Keys, []string{"Missing"}) {
		t.Fatalf("unexpected keys %v", uk.Keys)
	}
	if v, _ := s.Index().Entries.Get("Hello"); v != "Hello" {
		t.Fatalf("rejected transaction changed Hello to %q", v)
	}
	if a.calls != 0 {
		t.Fatalf("rejected transaction should not autosave")
	}
}

func TestApplyAllLastWins(t *testing.T) {
	s, a := newLoaded(t, config.Default())

	results, err := s.ApplyAll([]Edit{
		{Key: "Hello", Value: "Hi"},
		{Key: "Goodbye", Value: "Bye"},
		{Key: "Hello", Value: "Hey"},
	})
	if err != nil {
		t.Fatalf("ApplyAll failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if v, _ := s.Index().Entries.Get("Hello"); v != "Hey" {
		t.Fatalf("expected Hey, got %q", v)
	}
	if a.calls != 1 {
		t.Fatalf("expected a single autosave per transaction, got %d", a.calls)
	}
}

func TestAutosaveFailureIsSwallowed(t *testing.T) {
	s, a := newLoaded(t, config.Default())
	a.err = errors.New("disk full")

	if _, err := s.Apply(Edit{Key: "Hello", Value: "Hi"}); err != nil {
		t.Fatalf("autosave failure should not fail the edit: %v", err)
	}
	if v, _ := s.Index().Entries.Get("Hello"); v != "Hi" {
		t.Fatalf("edit lost, got %q", v)
	}
	if err := s.Save(); err == nil {
		t.Fatalf("explicit save should report the failure")
	}
}

func TestNotLoaded(t *testing.T) {
	s := New(config.Default(), nil)
	if _, err := s.Apply(Edit{Key: "a", Value: "b"}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := s.Revert("a"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := s.Save(); err == nil {
		t.Fatalf("save without a destination should fail")
	}
}

func TestJournal(t *testing.T) {
	s, _ := newLoaded(t, config.Default())
	p := newMemoryPersistence()
	s.SetJournal(p)

	if _, err := s.Apply(Edit{Key: "Hello", Value: "Hi"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if p.edits["Hello"] != "Hi" {
		t.Fatalf("edit not journaled: %v", p.edits)
	}

	if err := s.Revert("Hello"); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if _, ok := p.edits["Hello"]; ok {
		t.Fatalf("revert should drop the journaled edit")
	}
	if view, _ := s.Entry("Hello"); view.Edited {
		t.Fatalf("reverted entry still marked edited")
	}

	p.err = errors.New("read-only")
	if _, err := s.Apply(Edit{Key: "Goodbye", Value: "Bye"}); err == nil {
		t.Fatalf("expected journal failure")
	}
	if v, _ := s.Index().Entries.Get("Goodbye"); v != "Goodbye" {
		t.Fatalf("failed journal write changed the entry to %q", v)
	}
}

func TestApplyAllJournalFailureChangesNothing(t *testing.T) {
	s, a := newLoaded(t, config.Default())
	p := newMemoryPersistence()
	s.SetJournal(p)
	if _, err := s.Apply(Edit{Key: "Goodbye", Value: "Later"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	calls := a.calls

	p.failOn = p.writes + 2
	_, err := s.ApplyAll([]Edit{
		{Key: "Hello", Value: "Hi"},
		{Key: "Goodbye", Value: "Bye"},
	})
	if err == nil {
		t.Fatalf("expected journal failure")
	}

	if v, _ := s.Index().Entries.Get("Hello"); v != "Hello" {
		t.Fatalf("Hello changed to %q", v)
	}
	if v, _ := s.Index().Entries.Get("Goodbye"); v != "Later" {
		t.Fatalf("Goodbye changed to %q", v)
	}
	want := map[string]string{"Goodbye": "Later"}
	if !reflect.DeepEqual(p.edits, want) {
		t.Fatalf("journal not rolled back: %v", p.edits)
	}
	if a.calls != calls {
		t.Fatalf("rejected transaction should not autosave")
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestStartAndOpen(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.AutosavePath = filepath.Join(t.TempDir(), "_autosave.csv")
	path := writeCSV(t, "location,source,target\nL1,S1,Hello\nL2,S2,Goodbye\n")
	p := newMemoryPersistence()

	s, err := Start(ctx, cfg, p, path)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := s.Apply(Edit{Key: "Hello", Value: "Hi"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	p.edits["Vanished"] = "stale"

	reopened, err := Open(ctx, cfg, p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if v, _ := reopened.Index().Entries.Get("Hello"); v != "Hi" {
		t.Fatalf("edit not replayed, got %q", v)
	}
	if reopened.Index().Entries.Has("Vanished") {
		t.Fatalf("stale edit should be skipped")
	}

	pairs, err := store.ReadPairs(cfg.AutosavePath)
	if err != nil {
		t.Fatalf("recovery file missing: %v", err)
	}
	if len(pairs) != 2 || pairs[0].Value != "Hi" {
		t.Fatalf("unexpected recovery file %v", pairs)
	}
}

func TestStartRejectsBadFile(t *testing.T) {
	p := newMemoryPersistence()
	path := writeCSV(t, "foo,bar\n1,2\n")

	if _, err := Start(context.Background(), config.Default(), p, path); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := p.Meta(); !errors.Is(err, store.ErrNoSession) {
		t.Fatalf("bad file should leave the session untouched, got %v", err)
	}
}

func TestOpenWithoutSession(t *testing.T) {
	if _, err := Open(context.Background(), config.Default(), newMemoryPersistence()); !errors.Is(err, store.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
