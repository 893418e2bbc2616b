package dict

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Registry holds all loaded dictionaries and serves pronunciation lookups.
type Registry struct {
	mu       sync.RWMutex
	dicts    map[string]*Dictionary
	byLocale map[string][]*Dictionary
	dictsDir string
}

// NewRegistry creates a registry for the given directory. Until Load is
// called it serves only the embedded dictionary.
func NewRegistry(dictsDir string) (*Registry, error) {
	r := &Registry{dictsDir: dictsDir}
	core, err := Core()
	if err != nil {
		return nil, err
	}
	r.install(map[string]*Dictionary{core.Manifest.ID: core})
	return r, nil
}

// Load scans the dicts directory and loads every dictionary. A missing
// directory is not an error: the embedded dictionary is still served.
func (r *Registry) Load() error {
	core, err := Core()
	if err != nil {
		return err
	}
	newDicts := map[string]*Dictionary{core.Manifest.ID: core}

	if r.dictsDir != "" {
		entries, err := os.ReadDir(r.dictsDir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("dicts dir missing, serving embedded dictionary only", "dir", r.dictsDir)
		case err != nil:
			return fmt.Errorf("read dicts dir %s: %w", r.dictsDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(r.dictsDir, entry.Name())
			if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
				continue
			}
			d, err := LoadDictionary(dir)
			if err != nil {
				return fmt.Errorf("load dictionary %s: %w", entry.Name(), err)
			}
			// A dictionary on disk replaces an embedded one with the same ID.
			newDicts[d.Manifest.ID] = d
		}
	}

	r.install(newDicts)
	return nil
}

// Reload reloads all dictionaries from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// install swaps in a new dictionary set and rebuilds the per-locale
// lookup order: dictionaries on disk by ID, embedded ones last.
func (r *Registry) install(dicts map[string]*Dictionary) {
	byLocale := make(map[string][]*Dictionary)
	for _, d := range dicts {
		loc := BaseLocale(d.Manifest.Locale)
		byLocale[loc] = append(byLocale[loc], d)
	}
	for _, list := range byLocale {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Embedded != list[j].Embedded {
				return !list[i].Embedded
			}
			return list[i].Manifest.ID < list[j].Manifest.ID
		})
	}

	r.mu.Lock()
	r.dicts = dicts
	r.byLocale = byLocale
	r.mu.Unlock()
}

// Lookup returns the pronunciation of word from the first dictionary
// for locale that has it, together with that dictionary's ID.
func (r *Registry) Lookup(locale, word string) ([]Phone, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.byLocale[BaseLocale(locale)] {
		if phones, ok := d.Pronounce(word); ok {
			return phones, d.Manifest.ID, true
		}
	}
	return nil, "", false
}

// ForLocale returns a lexicon view of the registry restricted to one
// locale. The view follows reloads.
func (r *Registry) ForLocale(locale string) *LocaleView {
	return &LocaleView{reg: r, locale: BaseLocale(locale)}
}

// LocaleView is a single-locale lexicon backed by a Registry.
type LocaleView struct {
	reg    *Registry
	locale string
}

// Pronounce looks word up in every dictionary of the view's locale.
func (v *LocaleView) Pronounce(word string) ([]Phone, bool) {
	phones, _, ok := v.reg.Lookup(v.locale, word)
	return phones, ok
}

// Get returns a loaded dictionary by ID.
func (r *Registry) Get(id string) (*Dictionary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dicts[id]
	return d, ok
}

// DictInfo is the public metadata for a loaded dictionary.
type DictInfo struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	Locale    string `json:"locale"`
	Method    string `json:"method"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url,omitempty"`
	License   string `json:"license"`
	Entries   int    `json:"entries"`
	Embedded  bool   `json:"embedded"`
}

// ListDicts returns metadata for all loaded dictionaries, sorted by ID.
func (r *Registry) ListDicts() []DictInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]DictInfo, 0, len(r.dicts))
	for _, d := range r.dicts {
		infos = append(infos, DictInfo{
			ID:        d.Manifest.ID,
			Version:   d.Manifest.Version,
			Locale:    d.Manifest.Locale,
			Method:    d.Manifest.Method,
			Source:    d.Manifest.Source,
			SourceURL: d.Manifest.SourceURL,
			License:   d.Manifest.License,
			Entries:   len(d.Entries),
			Embedded:  d.Embedded,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// DictCount returns the number of loaded dictionaries.
func (r *Registry) DictCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dicts)
}

// TotalEntries returns the total number of entries across all dictionaries.
func (r *Registry) TotalEntries() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, d := range r.dicts {
		total += len(d.Entries)
	}
	return total
}
