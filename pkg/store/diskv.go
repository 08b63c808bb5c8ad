// Package store persists editor state: the crash recovery file, the rebuilt
// output table and, between command invocations, the working session.
package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

const (
	metaKey     = "meta-session"
	editsPrefix = "edits-"
)

// Meta describes the loaded source of a session.
type Meta struct {
	Source string    `json:"source"`
	Loaded time.Time `json:"loaded"`
}

// Persistence defines the persistence contract for a working session.
type Persistence interface {
	Meta() (Meta, error)
	SetSource(path string) error
	Edits(ctx context.Context) []Pair
	SaveEdit(key, value string) error
	DropEdit(key string) error
	Reset() error
	BasePath() string
}

// ErrNoSession is returned by Meta when nothing has been loaded yet.
var ErrNoSession = errors.New("store: no session loaded, run load first")

// Load creates a Persistence backed by diskv rooted at basePath.
func Load(basePath string) (Persistence, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) BasePath() string {
	return p.basePath
}

func (p *persistence) Meta() (Meta, error) {
	if !p.d.Has(metaKey) {
		return Meta{}, ErrNoSession
	}
	val, err := p.d.Read(metaKey)
	if err != nil {
		return Meta{}, fmt.Errorf("store: read session: %w", err)
	}
	m := Meta{}
	if err := json.Unmarshal(val, &m); err != nil {
		return Meta{}, fmt.Errorf("store: decode session: %w", err)
	}
	return m, nil
}

// SetSource starts a new session for path, dropping edits of any earlier one.
func (p *persistence) SetSource(path string) error {
	if err := p.Reset(); err != nil {
		return err
	}
	data, err := json.Marshal(Meta{Source: path, Loaded: time.Now()})
	if err != nil {
		return err
	}
	if err := p.d.Write(metaKey, data); err != nil {
		return fmt.Errorf("store: write session: %w", err)
	}
	return nil
}

// Edits returns every stored edit ordered by key.
func (p *persistence) Edits(ctx context.Context) []Pair {
	all := make([]Pair, 0)
	for key := range p.d.KeysPrefix(editsPrefix, ctx.Done()) {
		val, err := p.d.Read(key)
		if err != nil {
			slog.Warn("store: skipping unreadable edit", "key", key, "err", err)
			continue
		}
		pair := Pair{}
		if err := json.Unmarshal(val, &pair); err != nil {
			slog.Warn("store: skipping undecodable edit", "key", key, "err", err)
			continue
		}
		all = append(all, pair)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Key < all[j].Key
	})
	return all
}

func (p *persistence) SaveEdit(key, value string) error {
	data, err := json.Marshal(Pair{Key: key, Value: value})
	if err != nil {
		return err
	}
	if err := p.d.Write(toKey(key), data); err != nil {
		return fmt.Errorf("store: save edit: %w", err)
	}
	return nil
}

func (p *persistence) DropEdit(key string) error {
	k := toKey(key)
	if !p.d.Has(k) {
		return nil
	}
	if err := p.d.Erase(k); err != nil {
		return fmt.Errorf("store: drop edit: %w", err)
	}
	return nil
}

// Reset forgets the session and all of its edits.
func (p *persistence) Reset() error {
	if err := p.d.EraseAll(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: reset session: %w", err)
	}
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `edits-<sha1 of the dedup key>`
func toKey(key string) string {
	sum := sha1.Sum([]byte(key))
	return editsPrefix + hex.EncodeToString(sum[:])
}
