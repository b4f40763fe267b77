package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/easy-worktree/wt/internal/storage"
)

// DiffConfig configures `wt diff`.
type DiffConfig struct {
	Tool string `toml:"tool"` // "default" runs git diff, anything else git difftool --tool
}

// LogConfig configures the optional trace log file.
type LogConfig struct {
	File string `toml:"file"`
}

// ForgeConfig selects the hosting CLI used for pull request state.
type ForgeConfig struct {
	Default string            `toml:"default"` // "github" or "gitlab"; empty detects from the remote URL
	Hosts   map[string]string `toml:"hosts"`   // host -> forge, for self-hosted instances
}

// Config is the effective configuration after layering defaults, the
// global, the project and the local documents.
type Config struct {
	WorktreesDir   string      `toml:"worktrees_dir"`
	SetupFiles     []string    `toml:"setup_files"`
	SetupSourceDir string      `toml:"setup_source_dir"`
	Remote         string      `toml:"remote"`
	Diff           DiffConfig  `toml:"diff"`
	Log            LogConfig   `toml:"log"`
	Forge          ForgeConfig `toml:"forge"`
}

// Defaults returns the built-in base document every resolution starts from.
func Defaults() Document {
	return Document{
		"worktrees_dir": NewScalar(".worktrees"),
		"setup_files":   Strings(".env"),
		"remote":        NewScalar("origin"),
		"diff":          NewMapping(Document{"tool": NewScalar("default")}),
	}
}

// Default returns the effective configuration when no layer is present.
func Default() Config {
	cfg, _ := decode(Defaults())
	return cfg
}

// Layer identifies one configuration source.
type Layer int

const (
	LayerGlobal Layer = iota
	LayerProject
	LayerLocal
)

func (l Layer) String() string {
	switch l {
	case LayerProject:
		return "project"
	case LayerLocal:
		return "local"
	default:
		return "global"
	}
}

// Sources holds the file path of each layer. Empty paths are skipped.
type Sources struct {
	Global  string
	Project string
	Local   string
}

// Project-relative locations of the layer files.
const (
	StateDirName = ".wt"
	ProjectFile  = "config.toml"
	LocalFile    = "config.local.toml"
	globalFile   = "config.toml"
	fileMode     = 0o644
)

// SourcesFor returns the layer paths for a project rooted at root.
// An empty root yields only the global layer.
func SourcesFor(root string) Sources {
	var src Sources
	if dir, err := storage.ConfigDir(); err == nil {
		src.Global = filepath.Join(dir, globalFile)
	}
	if root != "" {
		src.Project = filepath.Join(root, StateDirName, ProjectFile)
		src.Local = filepath.Join(root, StateDirName, LocalFile)
	}
	return src
}

// Path returns the file backing the given layer.
func (s Sources) Path(l Layer) string {
	switch l {
	case LayerProject:
		return s.Project
	case LayerLocal:
		return s.Local
	default:
		return s.Global
	}
}

// LoadWarning reports a layer that was skipped during resolution.
type LoadWarning struct {
	Layer Layer
	Path  string
	Err   error
}

func (w LoadWarning) Error() string {
	return fmt.Sprintf("skipping %s config %s: %v", w.Layer, w.Path, w.Err)
}

func (w LoadWarning) Unwrap() error { return w.Err }

// Load reads every present layer and resolves them in precedence order
// (global, project, local). A missing file is silently absent; an unreadable,
// malformed or invalid one is skipped and reported as a warning.
func Load(src Sources) (Config, []LoadWarning) {
	var (
		docs     []Document
		warnings []LoadWarning
	)

	for _, layer := range []Layer{LayerGlobal, LayerProject, LayerLocal} {
		path := src.Path(layer)
		if path == "" {
			continue
		}

		doc, err := ReadDocument(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err == nil {
			_, err = decode(Merge(Defaults(), doc))
		}
		if err != nil {
			warnings = append(warnings, LoadWarning{Layer: layer, Path: path, Err: err})
			continue
		}
		docs = append(docs, doc)
	}

	cfg, err := Resolve(docs...)
	if err != nil {
		// each layer already decoded on its own
		warnings = append(warnings, LoadWarning{Path: "(merged)", Err: err})
		return Default(), warnings
	}
	return cfg, warnings
}

// Resolve deep-merges docs, lowest precedence first, over the defaults and
// decodes the result.
func Resolve(docs ...Document) (Config, error) {
	return decode(Effective(docs...))
}

// Effective returns the merged document without decoding it.
func Effective(docs ...Document) Document {
	acc := Defaults()
	for _, doc := range docs {
		acc = Merge(acc, doc)
	}
	return acc
}

func decode(doc Document) (Config, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc.ToTOML()); err != nil {
		return Config{}, err
	}

	var cfg Config
	if _, err := toml.Decode(buf.String(), &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadDocument parses one layer file into a Document.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}
	return FromTOML(raw), nil
}

// WriteDocument atomically replaces the layer file with doc.
func WriteDocument(path string, doc Document) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc.ToTOML()); err != nil {
		return err
	}
	return storage.WriteFile(path, buf.Bytes(), fileMode)
}

// GetKey reads a dotted key from a single layer file (not the merged view).
func GetKey(path, key string) (Value, bool, error) {
	doc, err := ReadDocument(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, err
	}
	v, ok := doc.Get(key)
	return v, ok, nil
}

// SetKey assigns key in the layer file at path. The file is re-read under a
// lock so keys written concurrently by another invocation survive, and the
// whole document is then replaced atomically.
func SetKey(path, key string, v Value) error {
	return updateDocument(path, func(doc Document) error {
		if err := doc.Set(key, v); err != nil {
			return err
		}
		if _, err := decode(Merge(Defaults(), doc)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return nil
	})
}

// UnsetKey removes key from the layer file at path.
func UnsetKey(path, key string) error {
	return updateDocument(path, func(doc Document) error {
		if !doc.Unset(key) {
			return fmt.Errorf("key %s is not set in %s", key, path)
		}
		return nil
	})
}

func updateDocument(path string, fn func(Document) error) error {
	return storage.WithLock(path, func() error {
		doc, err := ReadDocument(path)
		if errors.Is(err, fs.ErrNotExist) {
			doc = Document{}
		} else if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return WriteDocument(path, doc)
	})
}
