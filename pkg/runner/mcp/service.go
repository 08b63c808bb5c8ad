// Package mcp provides the Model Context Protocol server integration for buttercsv.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/buttercsv/pkg/check"
	"tableflip.dev/buttercsv/pkg/session"
	"tableflip.dev/buttercsv/pkg/store"
)

// Service serializes access to one session for concurrent MCP requests.
type Service struct {
	mu      sync.Mutex
	session *session.Session
}

// ErrEntryNotFound is returned when no entry has the requested number or key.
var ErrEntryNotFound = errors.New("entry not found")

// ListOptions selects a page of entries. Nil fields keep the session setting.
type ListOptions struct {
	Page          int
	MinDuplicates *int
	Descending    *bool
}

// PageDTO is one page of the current order.
type PageDTO struct {
	Page          int                 `json:"page"`
	Pages         int                 `json:"pages"`
	MinDuplicates int                 `json:"minDuplicates"`
	Descending    bool                `json:"descending"`
	Total         int                 `json:"total"`
	Entries       []session.EntryView `json:"entries"`
}

// SummaryDTO describes the loaded session.
type SummaryDTO struct {
	Rows     int `json:"rows"`
	Entries  int `json:"entries"`
	Edited   int `json:"edited"`
	Pages    int `json:"pages"`
	PageSize int `json:"pageSize"`
}

// NewService builds a service wrapper around a loaded session.
func NewService(s *session.Session) *Service {
	return &Service{session: s}
}

func (s *Service) ready() error {
	if s.session == nil {
		return errors.New("session is not configured")
	}
	if !s.session.Loaded() {
		return session.ErrNotLoaded
	}
	return nil
}

// Summary reports the size of the session.
func (s *Service) Summary(_ context.Context) (SummaryDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return SummaryDTO{}, err
	}

	entries := s.session.Index().Entries
	edited := 0
	entries.Each(func(key, value string) bool {
		if key != value {
			edited++
		}
		return true
	})
	return SummaryDTO{
		Rows:     len(s.session.Rows()),
		Entries:  entries.Len(),
		Edited:   edited,
		Pages:    s.session.PageCount(),
		PageSize: s.session.Config().EntriesPerPage,
	}, nil
}

// ListEntries returns a 1-based page after applying any filter or sort change.
func (s *Service) ListEntries(_ context.Context, opts ListOptions) (PageDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return PageDTO{}, err
	}

	if opts.MinDuplicates != nil && *opts.MinDuplicates != s.session.MinDuplicates() {
		s.session.SetFilter(*opts.MinDuplicates)
	}
	if opts.Descending != nil && *opts.Descending != s.session.Descending() {
		s.session.SetDescending(*opts.Descending)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	if page > 1 && !s.session.Seek(page-1) {
		return PageDTO{}, fmt.Errorf("page %d out of range, there are %d", page, s.session.PageCount())
	}
	if page == 1 {
		s.session.Seek(0)
	}

	return PageDTO{
		Page:          s.session.Page() + 1,
		Pages:         s.session.PageCount(),
		MinDuplicates: s.session.MinDuplicates(),
		Descending:    s.session.Descending(),
		Total:         len(s.session.Order()),
		Entries:       s.session.View(),
	}, nil
}

// SearchEntries finds entries whose original or current text contains query,
// ignoring case.
func (s *Service) SearchEntries(_ context.Context, query string, limit int) ([]session.EntryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 20
	}

	results := make([]session.EntryView, 0)
	for _, key := range s.session.Order() {
		view, _ := s.session.Entry(key)
		if strings.Contains(strings.ToLower(view.Key), query) || strings.Contains(strings.ToLower(view.Value), query) {
			results = append(results, view)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// Entry returns the entry with the given number.
func (s *Service) Entry(_ context.Context, number int) (session.EntryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return session.EntryView{}, err
	}
	return s.entry(number)
}

func (s *Service) entry(number int) (session.EntryView, error) {
	key, ok := s.session.Lookup(number)
	if !ok {
		return session.EntryView{}, fmt.Errorf("%w: %d", ErrEntryNotFound, number)
	}
	view, _ := s.session.Entry(key)
	return view, nil
}

// EditEntry replaces the text of the numbered entry.
func (s *Service) EditEntry(_ context.Context, number int, text string) (session.EntryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return session.EntryView{}, err
	}
	view, err := s.entry(number)
	if err != nil {
		return session.EntryView{}, err
	}
	if _, err := s.session.Apply(session.Edit{Key: view.Key, Value: text}); err != nil {
		return session.EntryView{}, err
	}
	view, _ = s.session.Entry(view.Key)
	return view, nil
}

// RevertEntry restores the numbered entry to its original text.
func (s *Service) RevertEntry(_ context.Context, number int) (session.EntryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return session.EntryView{}, err
	}
	view, err := s.entry(number)
	if err != nil {
		return session.EntryView{}, err
	}
	if err := s.session.Revert(view.Key); err != nil {
		return session.EntryView{}, err
	}
	view, _ = s.session.Entry(view.Key)
	return view, nil
}

// ApplyEdits applies key,value edits as one transaction.
func (s *Service) ApplyEdits(_ context.Context, edits []session.Edit) ([]session.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.session.ApplyAll(edits)
}

// CheckText validates text with the session limits.
func (s *Service) CheckText(_ context.Context, text string) []check.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	return s.session.Check(text)
}

// Rebuild writes the output table to path.
func (s *Service) Rebuild(_ context.Context, path string) (store.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return store.Report{}, err
	}
	if strings.TrimSpace(path) == "" {
		return store.Report{}, errors.New("path is required")
	}
	rows, warnings := s.session.Rebuild()
	return store.FinalSave(path, rows, warnings)
}
