package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hazyhaar/phonocoach/pkg/dict"
)

func init() {
	Register(&cmudictAdapter{
		id:          "cmudict-en",
		dictID:      "cmudict-en",
		description: "CMU Pronouncing Dictionary (cmusphinx, maintained)",
		defaultURL:  "https://raw.githubusercontent.com/cmusphinx/cmudict/master/cmudict.dict",
		encoding:    "utf-8",
		version:     "cmusphinx-master",
	})
	Register(&cmudictAdapter{
		id:          "cmudict-07b-en",
		dictID:      "cmudict-07b-en",
		description: "CMU Pronouncing Dictionary 0.7b (SourceForge release)",
		defaultURL:  "https://svn.code.sf.net/p/cmusphinx/code/trunk/cmudict/cmudict-0.7b",
		encoding:    "iso-8859-1",
		version:     "0.7b",
	})
}

// cmudictAdapter imports one release of the CMU Pronouncing Dictionary.
// Releases differ only in URL and text encoding.
type cmudictAdapter struct {
	id          string
	dictID      string
	description string
	defaultURL  string
	encoding    string
	version     string
}

func (a *cmudictAdapter) ID() string          { return a.id }
func (a *cmudictAdapter) DictID() string      { return a.dictID }
func (a *cmudictAdapter) Description() string { return a.description }
func (a *cmudictAdapter) DefaultURL() string  { return a.defaultURL }
func (a *cmudictAdapter) License() string     { return "BSD-2-Clause" }

func (a *cmudictAdapter) Import(ctx context.Context, sourceURL, outputDir string) (int, error) {
	dlDir := filepath.Join(outputDir, "_download", a.id)
	if err := ensureDir(dlDir); err != nil {
		return 0, err
	}
	defer os.RemoveAll(dlDir)

	rawPath := filepath.Join(dlDir, "cmudict.txt")
	slog.Debug("downloading", "adapter", a.id, "url", sourceURL)
	if err := downloadFile(ctx, sourceURL, rawPath); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	f, err := os.Open(rawPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r, err := dict.DecodeReader(f, a.encoding)
	if err != nil {
		return 0, err
	}
	entries, err := dict.ParseCMU(r)
	if err != nil {
		return 0, fmt.Errorf("parse: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("parse: no pronunciations found in %s", sourceURL)
	}

	dictDir := filepath.Join(outputDir, a.dictID)
	if err := ensureDir(dictDir); err != nil {
		return 0, err
	}
	if err := dict.SaveGob(entries, filepath.Join(dictDir, "data.gob")); err != nil {
		return 0, fmt.Errorf("save gob: %w", err)
	}

	err = dict.WriteManifest(&dict.Manifest{
		ID:        a.dictID,
		Version:   a.version,
		Locale:    "en",
		Source:    a.description,
		SourceURL: sourceURL,
		License:   a.License(),
		DataFile:  "data.gob",
		Method:    dict.MethodCMU,
		Format:    dict.FormatSpec{Encoding: "utf-8", Normalize: "lower"},
	}, filepath.Join(dictDir, "manifest.yaml"))
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
