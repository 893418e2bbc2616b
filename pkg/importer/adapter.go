// Package importer downloads public pronunciation dictionaries and
// converts them into the on-disk layout the dict registry loads:
// <output>/<dict-id>/{manifest.yaml,data.gob}.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Adapter defines a data source importer that downloads, transforms, and
// serializes a dictionary into gob format.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "cmudict-en").
	ID() string
	// DictID returns the target dictionary ID.
	DictID() string
	// Description returns a human-readable description.
	Description() string
	// DefaultURL returns the default source URL used for seeding the database.
	DefaultURL() string
	// License returns the license identifier for this source.
	License() string
	// Import downloads the source from sourceURL, transforms it, and writes
	// data.gob + manifest.yaml into a subdirectory of outputDir named after
	// DictID(). It returns the number of entries written.
	Import(ctx context.Context, sourceURL, outputDir string) (int, error)
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters[a.ID()] = a
}

// Get returns a registered adapter by ID, or an error if not found.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown import source: %q", id)
	}
	return a, nil
}

// All returns all registered adapters sorted by ID.
func All() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// Result is the outcome of one adapter run.
type Result struct {
	AdapterID string
	DictID    string
	Entries   int
	Duration  time.Duration
	Err       error
}

// RunAll imports every adapter, at most limit at a time, using the URL
// recorded in sources for each one. A failing adapter does not stop the
// others; each outcome is recorded in sources and returned in adapter order.
func RunAll(ctx context.Context, sources *SourceDB, list []Adapter, outputDir string, limit int, logger *slog.Logger) []Result {
	if limit < 1 {
		limit = 1
	}
	results := make([]Result, len(list))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, a := range list {
		g.Go(func() error {
			results[i] = Run(ctx, sources, a, outputDir, logger)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Run imports a single adapter and records the outcome in sources.
func Run(ctx context.Context, sources *SourceDB, a Adapter, outputDir string, logger *slog.Logger) Result {
	res := Result{AdapterID: a.ID(), DictID: a.DictID()}
	start := time.Now()

	url, err := sources.GetURL(a.ID())
	if err != nil {
		res.Err = err
		return res
	}

	logger.Info("import started", "adapter", a.ID(), "url", url)
	res.Entries, res.Err = a.Import(ctx, url, outputDir)
	res.Duration = time.Since(start)

	errMsg := ""
	if res.Err != nil {
		errMsg = res.Err.Error()
		logger.Error("import failed", "adapter", a.ID(), "error", res.Err)
	} else {
		logger.Info("import done", "adapter", a.ID(), "dict", a.DictID(),
			"entries", res.Entries, "duration", res.Duration.Round(time.Millisecond))
	}
	if err := sources.RecordImport(a.ID(), res.Entries, errMsg); err != nil {
		logger.Warn("record import result", "adapter", a.ID(), "error", err)
	}
	return res
}
