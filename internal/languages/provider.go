// Package languages turns YAML language tables into shared highlight
// registries, looked up by language name or file extension.
package languages

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/zjrosen/hilite/internal/cachemanager"
	"github.com/zjrosen/hilite/internal/highlight"
	"github.com/zjrosen/hilite/internal/log"
)

//go:embed tables/*.yaml
var bundled embed.FS

// ErrUnknownLanguage is returned when no table matches a name or extension.
var ErrUnknownLanguage = errors.New("unknown language")

// Config configures a Provider.
type Config struct {
	// Dir holds extra *.yaml tables. A table with the same name as a bundled
	// one replaces it. Empty or missing means bundled tables only.
	Dir string
	// CacheTTL bounds how long an unused compiled registry is kept.
	CacheTTL time.Duration
}

// Provider resolves languages to compiled registries. Registries are
// compiled on first use and shared: every Highlighter for the same language
// reads the same registry. Safe for concurrent use.
type Provider struct {
	mu     sync.RWMutex
	tables map[string]Table
	exts   map[string]string

	cache *cachemanager.ReadThroughCache[string, *highlight.Registry, Table]
	ttl   time.Duration
}

// NewProvider loads the bundled tables and those in cfg.Dir.
func NewProvider(cfg Config) (*Provider, error) {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cachemanager.DefaultExpiration
	}
	p := &Provider{
		tables: make(map[string]Table),
		exts:   make(map[string]string),
		ttl:    ttl,
	}
	p.cache = cachemanager.NewReadThroughCache[string, *highlight.Registry, Table](
		cachemanager.NewInMemoryCacheManager[string, *highlight.Registry]("registries", ttl, cachemanager.DefaultCleanupInterval),
		compileTable,
		false,
	)

	tables, err := loadFS(bundled, "tables", "bundled")
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		p.add(t)
	}

	if cfg.Dir != "" {
		if err := p.LoadDir(cfg.Dir); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LoadDir adds every *.yaml and *.yml table in dir. A missing directory is
// not an error.
func (p *Provider) LoadDir(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.Info(log.CatLang, "language directory not found", "dir", dir)
		return nil
	}
	tables, err := loadFS(os.DirFS(dir), ".", dir)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if err := p.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// Add registers t, replacing any table with the same name.
func (p *Provider) Add(t Table) error {
	t.Name = normalizeName(t.Name)
	for i, ext := range t.Extensions {
		t.Extensions[i] = normalizeExt(ext)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	p.add(t)
	// A registry compiled from the replaced table must not be served.
	return p.cache.Invalidate(context.Background(), t.Name)
}

func (p *Provider) add(t Table) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.tables[t.Name]; ok {
		for _, ext := range old.Extensions {
			if p.exts[ext] == old.Name {
				delete(p.exts, ext)
			}
		}
		log.Info(log.CatLang, "language table replaced", "name", t.Name, "old", old.Source, "new", t.Source)
	}
	p.tables[t.Name] = t
	for _, ext := range t.Extensions {
		p.exts[ext] = t.Name
	}
	log.Debug(log.CatLang, "language table loaded", "name", t.Name, "source", t.Source, "rules", len(t.Rules))
}

// ForName returns the registry of the named language.
func (p *Provider) ForName(ctx context.Context, name string) (*highlight.Registry, error) {
	t, ok := p.Table(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return p.cache.GetWithRefresh(ctx, t.Name, t, p.ttl)
}

// ForExtension returns the registry of the language that owns ext. The
// leading dot is optional.
func (p *Provider) ForExtension(ctx context.Context, ext string) (*highlight.Registry, error) {
	name, ok := p.LanguageOf(ext)
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrUnknownLanguage, ext)
	}
	return p.ForName(ctx, name)
}

// ForPath picks the language from the extension of file.
func (p *Provider) ForPath(ctx context.Context, file string) (*highlight.Registry, error) {
	return p.ForExtension(ctx, filepath.Ext(file))
}

// LanguageOf returns the name of the language owning ext.
func (p *Provider) LanguageOf(ext string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	name, ok := p.exts[normalizeExt(ext)]
	return name, ok
}

// Table returns the table registered under name.
func (p *Provider) Table(name string) (Table, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.tables[normalizeName(name)]
	return t, ok
}

// Names returns the registered language names, sorted.
func (p *Provider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.tables))
	for name := range p.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func compileTable(ctx context.Context, t Table) (*highlight.Registry, error) {
	start := time.Now()
	reg, err := t.Compile()
	if err != nil {
		log.ErrorErr(log.CatLang, "language table failed to compile", err, "name", t.Name, "source", t.Source)
		return nil, err
	}
	log.Debug(log.CatLang, "language table compiled", "name", t.Name, "patterns", len(reg.Patterns()), "took", time.Since(start))
	return reg, nil
}

func loadFS(fsys fs.FS, dir, source string) ([]Table, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, path.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("listing %s tables: %w", source, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)

	tables := make([]Table, 0, len(files))
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		t, err := ParseTable(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		t.Source = source + "/" + path.Base(name)
		tables = append(tables, t)
	}
	return tables, nil
}
