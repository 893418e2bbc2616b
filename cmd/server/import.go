package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/phonocoach/pkg/importer"
)

func cmdImport(args []string) {
	fs := newFlagSet("import")
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	source := fs.String("source", "", "adapter ID to import (e.g. cmudict-en)")
	all := fs.Bool("all", false, "import all available sources")
	outputDir := fs.String("output-dir", "", "output directory for dictionaries (default: dicts_dir from config)")
	setURL := fs.String("set-url", "", "override a source URL, as <adapter-id>=<url>")
	concurrency := fs.Int("concurrency", 2, "imports run in parallel with --all")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)
	if *outputDir == "" {
		*outputDir = cfg.DictsDir
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fatal(logger, "create output dir", err)
	}

	// Open source DB and seed defaults.
	sourcesDBPath := cfg.SourcesDB
	if sourcesDBPath == "" {
		sourcesDBPath = filepath.Join(*outputDir, "sources.db")
	}
	sdb, err := openSources(sourcesDBPath)
	if err != nil {
		fatal(logger, "open sources db", err)
	}
	defer sdb.Close()

	if *setURL != "" {
		id, url, ok := strings.Cut(*setURL, "=")
		if !ok || url == "" {
			fmt.Fprintln(os.Stderr, "--set-url expects <adapter-id>=<url>")
			os.Exit(1)
		}
		if err := sdb.SetURL(id, url); err != nil {
			fatal(logger, "set url", err)
		}
		fmt.Printf("[%s] source URL set to %s\n", id, url)
		if !*all && *source == "" {
			return
		}
	}

	if !*all && *source == "" {
		fmt.Println("Available sources:")
		fmt.Println()
		sources, _ := sdb.ListSources()
		for _, src := range sources {
			status := ""
			if src.LastStatus != nil {
				status = fmt.Sprintf("  [%d]", *src.LastStatus)
			}
			if src.Entries != nil {
				status += fmt.Sprintf("  %d entries", *src.Entries)
			}
			fmt.Printf("  %-16s  %s  (-> %s)%s\n", src.AdapterID, src.Description, src.DictID, status)
		}
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  phonocoach import --source <id> [--output-dir <dir>]")
		fmt.Println("  phonocoach import --all [--output-dir <dir>]")
		fmt.Println("  phonocoach import --set-url <id>=<url>")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	var results []importer.Result
	if *all {
		results = importer.RunAll(ctx, sdb, importer.All(), *outputDir, *concurrency, logger)
	} else {
		a, err := importer.Get(*source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "\nAvailable sources:")
			for _, a := range importer.All() {
				fmt.Fprintf(os.Stderr, "  %s\n", a.ID())
			}
			os.Exit(1)
		}
		results = []importer.Result{importer.Run(ctx, sdb, a, *outputDir, logger)}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[%s] ERROR: %v\n", r.AdapterID, r.Err)
			continue
		}
		fmt.Printf("[%s] OK -> %s/%s/ (%d entries)\n", r.AdapterID, *outputDir, r.DictID, r.Entries)
	}
	if failed > 0 {
		os.Exit(1)
	}
	fmt.Println("Send SIGHUP to a running server to load the new dictionaries.")
}

// openSources opens the source table at path, creating its directory
// when needed, and seeds it with the registered adapters.
func openSources(path string) (*importer.SourceDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sources dir: %w", err)
	}
	sdb, err := importer.OpenSourceDB(path)
	if err != nil {
		return nil, err
	}
	if err := sdb.Seed(importer.All()); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("seed sources: %w", err)
	}
	return sdb, nil
}
