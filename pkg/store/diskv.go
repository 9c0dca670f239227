package store

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/focus/pkg/document"
)

// Persistence loads and saves the whole document.
type Persistence interface {
	Load(ctx context.Context) (document.Document, error)
	Save(ctx context.Context, doc document.Document) error
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Open returns the persistence backend selected by cfg, loading the config
// from disk when cfg is nil.
func Open(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	switch cfg.Backend() {
	case BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.BasePath(), sqliteFile))
	case BackendDiskv, "":
		return Load(cfg)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
	}
}

// sectionDir groups the section files under the base path.
const (
	sectionDir = "sections"
	tempDir    = ".tmp"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, &PersistenceError{Op: "open", Err: fmt.Errorf("base path unknown")}
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath, written: make(map[string][]byte)}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string

	mu      sync.Mutex
	written map[string][]byte
}

// Load reads every section present on disk.
func (p *persistence) Load(ctx context.Context) (document.Document, error) {
	raw := make(map[string][]byte)
	for _, name := range Sections() {
		if err := ctx.Err(); err != nil {
			return document.Document{}, err
		}
		key := toKey(name)
		if !p.d.Has(key) {
			continue
		}
		val, err := p.d.Read(key)
		if err != nil {
			return document.Document{}, &PersistenceError{Op: "read", Section: name, Err: err}
		}
		raw[name] = val
	}
	doc, err := decode(raw)
	if err != nil {
		return document.Document{}, err
	}
	p.mu.Lock()
	for name, val := range raw {
		p.written[name] = val
	}
	p.mu.Unlock()
	return doc, nil
}

// Save writes each section whose content changed since the last load or
// save. Writes go through diskv's temp dir so a reader never sees a torn
// section.
func (p *persistence) Save(ctx context.Context, doc document.Document) error {
	encoded, err := encode(doc)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range Sections() {
		if err := ctx.Err(); err != nil {
			return err
		}
		data := encoded[name]
		if prev, ok := p.written[name]; ok && bytes.Equal(prev, data) {
			continue
		}
		if err := p.d.Write(toKey(name), data); err != nil {
			return &PersistenceError{Op: "write", Section: name, Err: err}
		}
		p.written[name] = data
	}
	return nil
}

func (p *persistence) Close() error {
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

// toKey makes `sections-<name>`, stored at <base>/sections/<name>.
func toKey(section string) string {
	return fmt.Sprintf("%s-%s", sectionDir, section)
}

// sectionForPath derives the section from a diskv file path. Anything else
// under the base path still counts as a change to the store.
func (p *persistence) sectionForPath(path string) (string, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return "", true
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || parts[0] != sectionDir {
		return "", true
	}
	return parts[1], true
}
