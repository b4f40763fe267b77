// Package metadata records facts about worktrees that git does not keep,
// such as when a worktree was created and which alias paths point at it.
//
// There is one JSON document per repository, keyed by [Identity] of the
// repository's common git dir, so every worktree of a repository shares it.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/easy-worktree/wt/internal/storage"
)

// ErrUnavailable means the store could not be locked or written. Callers
// degrade to filesystem timestamps.
var ErrUnavailable = errors.New("metadata store unavailable")

const currentVersion = 1

// Record is the stored state of one worktree.
type Record struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Aliases   []string  `json:"aliases,omitempty"`
}

type document struct {
	Version int      `json:"version"`
	Records []Record `json:"records"`
}

// Store is the metadata document of one repository.
type Store struct {
	path      string
	now       func() time.Time
	birthTime func(string) (time.Time, error)
	lockWait  time.Duration
}

// Identity derives a stable store key from the repository's common git dir.
func Identity(commonDir string) string {
	abs, err := filepath.Abs(commonDir)
	if err != nil {
		abs = commonDir
	}
	abs = filepath.Clean(abs)

	sum := sha256.Sum256([]byte(abs))
	name := filepath.Base(abs)
	if name == ".git" {
		name = filepath.Base(filepath.Dir(abs))
	}
	return fmt.Sprintf("%s-%s", name, hex.EncodeToString(sum[:])[:12])
}

// DefaultDir returns the directory holding all metadata documents.
func DefaultDir() (string, error) {
	dir, err := storage.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "metadata"), nil
}

// Open returns the store for identity inside dir. Nothing is read until used.
func Open(dir, identity string) *Store {
	return &Store{
		path:      filepath.Join(dir, identity+".json"),
		now:       time.Now,
		birthTime: BirthTime,
		lockWait:  2 * time.Second,
	}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// load never fails: a missing or corrupt document means no records.
func (s *Store) load() document {
	var doc document
	if err := storage.LoadJSON(s.path, &doc); err != nil {
		return document{Version: currentVersion}
	}
	return doc
}

// update re-reads the document under the lock, applies fn and writes it back
// when fn reports a change.
func (s *Store) update(fn func(*document) bool) error {
	err := storage.WithLockTimeout(s.path, s.lockWait, func() error {
		doc := s.load()
		if !fn(&doc) {
			return nil
		}
		doc.Version = currentVersion
		return storage.SaveJSON(s.path, doc)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (d *document) find(path string) int {
	return slices.IndexFunc(d.Records, func(r Record) bool { return r.Path == path })
}

// RecordCreated stores the creation time of the worktree at path. A zero
// at means now. An existing timestamp is never overwritten.
func (s *Store) RecordCreated(path string, at time.Time) error {
	key := normalize(path, true)
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC().Truncate(time.Second)

	return s.update(func(d *document) bool {
		if i := d.find(key); i >= 0 {
			if !d.Records[i].CreatedAt.IsZero() {
				return false
			}
			d.Records[i].CreatedAt = at
			return true
		}
		d.Records = append(d.Records, Record{Path: key, CreatedAt: at})
		return true
	})
}

// GetCreated returns the recorded creation time of path.
func (s *Store) GetCreated(path string) (time.Time, bool) {
	doc := s.load()
	if i := doc.find(normalize(path, true)); i >= 0 && !doc.Records[i].CreatedAt.IsZero() {
		return doc.Records[i].CreatedAt, true
	}
	return time.Time{}, false
}

// Observe returns the creation time of a worktree, recording the filesystem
// birth time the first time an unrecorded worktree is seen so later calls
// report the same value. When the store cannot be written the filesystem
// time is still returned together with an ErrUnavailable error.
func (s *Store) Observe(path string) (time.Time, error) {
	if t, ok := s.GetCreated(path); ok {
		return t, nil
	}

	bt, err := s.birthTime(path)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.RecordCreated(path, bt); err != nil {
		return bt, err
	}
	// another invocation may have recorded first
	if t, ok := s.GetCreated(path); ok {
		return t, nil
	}
	return bt, nil
}

// Remove deletes the record of path, including its aliases.
func (s *Store) Remove(path string) error {
	key := normalize(path, true)
	return s.update(func(d *document) bool {
		i := d.find(key)
		if i < 0 {
			return false
		}
		d.Records = slices.Delete(d.Records, i, i+1)
		return true
	})
}

// Prune drops records whose path is not in live, for worktrees removed
// behind wt's back.
func (s *Store) Prune(live []string) error {
	keep := make(map[string]bool, len(live))
	for _, p := range live {
		keep[normalize(p, true)] = true
	}
	return s.update(func(d *document) bool {
		n := len(d.Records)
		d.Records = slices.DeleteFunc(d.Records, func(r Record) bool { return !keep[r.Path] })
		return len(d.Records) != n
	})
}

// Records returns a copy of all records.
func (s *Store) Records() []Record {
	return slices.Clone(s.load().Records)
}

// AddAlias records alias as an external reference to the worktree at path.
func (s *Store) AddAlias(path, alias string) error {
	key := normalize(path, true)
	a := normalize(alias, false)
	return s.update(func(d *document) bool {
		i := d.find(key)
		if i < 0 {
			d.Records = append(d.Records, Record{Path: key, CreatedAt: s.now().UTC().Truncate(time.Second)})
			i = len(d.Records) - 1
		}
		if slices.Contains(d.Records[i].Aliases, a) {
			return false
		}
		d.Records[i].Aliases = append(d.Records[i].Aliases, a)
		return true
	})
}

// RemoveAlias forgets alias wherever it is recorded. Returns the worktree
// path it pointed at, or "" when it was not recorded.
func (s *Store) RemoveAlias(alias string) (string, error) {
	a := normalize(alias, false)
	var owner string
	err := s.update(func(d *document) bool {
		for i := range d.Records {
			if j := slices.Index(d.Records[i].Aliases, a); j >= 0 {
				owner = d.Records[i].Path
				d.Records[i].Aliases = slices.Delete(d.Records[i].Aliases, j, j+1)
				return true
			}
		}
		return false
	})
	return owner, err
}

// AliasedPaths returns the worktree paths that are still reachable through
// one of their recorded aliases. Stale aliases (removed or repointed links)
// are ignored.
func (s *Store) AliasedPaths() map[string]bool {
	out := make(map[string]bool)
	for _, r := range s.load().Records {
		for _, a := range r.Aliases {
			target, err := filepath.EvalSymlinks(a)
			if err != nil {
				continue
			}
			if normalize(target, true) == r.Path {
				out[r.Path] = true
				break
			}
		}
	}
	return out
}

// normalize makes path absolute and clean, resolving symlinks in existing
// parents. With resolveLeaf the final element is resolved too.
func normalize(path string, resolveLeaf bool) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolveLeaf {
		if r, err := filepath.EvalSymlinks(abs); err == nil {
			return r
		}
	}
	if r, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(r, filepath.Base(abs))
	}
	return abs
}

// Normalize exposes the path normalisation used for record keys so callers
// can compare paths the same way.
func Normalize(path string) string {
	return normalize(path, true)
}

// statModTime is the last-resort creation time.
func statModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
