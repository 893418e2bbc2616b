package dict

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load methods understood by LoadDictionary.
const (
	MethodCMU = "cmudict"
	MethodCSV = "csv"
)

// Manifest describes a pronunciation dictionary: where it came from,
// which locale it serves and how its data file is laid out.
type Manifest struct {
	ID        string     `yaml:"id" json:"id"`
	Version   string     `yaml:"version" json:"version"`
	Locale    string     `yaml:"locale" json:"locale"`
	Source    string     `yaml:"source" json:"source"`
	SourceURL string     `yaml:"source_url" json:"source_url,omitempty"`
	License   string     `yaml:"license" json:"license"`
	DataFile  string     `yaml:"data_file" json:"data_file"`
	Method    string     `yaml:"method" json:"method"`
	Format    FormatSpec `yaml:"format" json:"-"`
}

// FormatSpec describes the data file layout. Delimiter, HasHeader and the
// column names only apply to CSV data.
type FormatSpec struct {
	Delimiter    string `yaml:"delimiter"`
	Encoding     string `yaml:"encoding"`
	HasHeader    bool   `yaml:"has_header"`
	KeyColumn    string `yaml:"key_column"`
	PhonesColumn string `yaml:"phones_column"`
	Normalize    string `yaml:"normalize"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return parseManifest(data, path)
}

func loadManifestFS(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", name, err)
	}
	return parseManifest(data, name)
}

func parseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if m.Locale == "" {
		return nil, fmt.Errorf("manifest %s: missing locale", path)
	}
	switch m.Method {
	case "":
		m.Method = MethodCMU
	case MethodCMU, MethodCSV:
	default:
		return nil, fmt.Errorf("manifest %s: unknown method %q", path, m.Method)
	}
	if m.DataFile == "" {
		if m.Method == MethodCSV {
			m.DataFile = "data.csv"
		} else {
			m.DataFile = "data.dict"
		}
	}
	return &m, nil
}

// WriteManifest marshals m to path as YAML.
func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// BaseLocale reduces a language tag to its lowercase primary subtag:
// "en-GB" and "en_US" become "en".
func BaseLocale(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
