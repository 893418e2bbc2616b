package dict

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Entry is the pronunciation of one headword.
type Entry struct {
	Phones []Phone `json:"phones"`
}

// Dictionary is one loaded dictionary with its manifest and in-memory hashmap.
type Dictionary struct {
	Manifest  *Manifest         `json:"manifest"`
	Entries   map[string]*Entry `json:"-"`
	Embedded  bool              `json:"embedded"`
	normalize Normalizer
}

// LoadDictionary reads dir/manifest.yaml and loads data from gob, CMU text or CSV.
func LoadDictionary(dir string) (*Dictionary, error) {
	return LoadDictionaryFS(os.DirFS(dir))
}

// LoadDictionaryFS is LoadDictionary over an fs.FS rooted at the
// dictionary directory.
func LoadDictionaryFS(fsys fs.FS) (*Dictionary, error) {
	manifest, err := loadManifestFS(fsys, "manifest.yaml")
	if err != nil {
		return nil, err
	}

	d := &Dictionary{
		Manifest:  manifest,
		Entries:   make(map[string]*Entry),
		normalize: GetNormalizer(manifest.Format.Normalize),
	}

	// Gob takes priority over the text formats.
	if f, err := fsys.Open("data.gob"); err == nil {
		defer f.Close()
		if d.Entries, err = ReadGob(f); err != nil {
			return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
		}
		return d, nil
	}

	f, err := fsys.Open(manifest.DataFile)
	if err != nil {
		return nil, fmt.Errorf("dict %s: open data file: %w", manifest.ID, err)
	}
	defer f.Close()

	r, err := DecodeReader(f, manifest.Format.Encoding)
	if err != nil {
		return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
	}

	switch manifest.Method {
	case MethodCSV:
		err = d.loadCSV(r)
	default:
		err = d.loadCMU(r)
	}
	if err != nil {
		return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
	}
	return d, nil
}

// DecodeReader transcodes text in the named encoding (an HTML encoding
// label such as "iso-8859-1") to UTF-8. UTF-8 input is returned as is.
func DecodeReader(r io.Reader, enc string) (io.Reader, error) {
	if isUTF8(enc) {
		return r, nil
	}
	e, err := htmlindex.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
	}
	return transform.NewReader(r, e.NewDecoder()), nil
}

func (d *Dictionary) loadCMU(r io.Reader) error {
	entries, collisions, err := parseCMU(r, d.normalize)
	if err != nil {
		return err
	}
	d.Entries = entries
	if collisions > 0 {
		slog.Warn("key collisions after normalization", "dict", d.Manifest.ID, "collisions", collisions)
	}
	return nil
}

// ParseCMU reads CMU pronouncing-dictionary text: one "WORD PH1 PH2 ..."
// line per pronunciation, ";;;" comment lines, optional "# ..." trailing
// comments. Alternate pronunciations ("word(2)") are ignored, so the
// first pronunciation of each word wins. Keys are lowercased.
func ParseCMU(r io.Reader) (map[string]*Entry, error) {
	entries, _, err := parseCMU(r, NormalizeLower)
	return entries, err
}

func parseCMU(r io.Reader, normalize Normalizer) (map[string]*Entry, int, error) {
	entries := make(map[string]*Entry)
	var collisions int

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || isVariant(fields[0]) {
			continue
		}
		key := normalize(fields[0])
		phones := ParsePhones(strings.Join(fields[1:], " "))
		if key == "" || len(phones) == 0 {
			continue
		}
		if _, exists := entries[key]; exists {
			collisions++
			continue
		}
		entries[key] = &Entry{Phones: phones}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read cmudict: %w", err)
	}
	return entries, collisions, nil
}

// isVariant reports whether a CMU headword is an alternate
// pronunciation such as "read(2)" or "READ(1)".
func isVariant(word string) bool {
	open := strings.LastIndexByte(word, '(')
	if open <= 0 || !strings.HasSuffix(word, ")") {
		return false
	}
	digits := word[open+1 : len(word)-1]
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (d *Dictionary) loadCSV(reader io.Reader) error {
	r := csv.NewReader(reader)
	if delim := d.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	keyIdx, phonesIdx := 0, 1
	if d.Manifest.Format.HasHeader {
		header, err := r.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		if keyIdx, err = columnIndex(header, d.Manifest.Format.KeyColumn, keyIdx); err != nil {
			return err
		}
		if phonesIdx, err = columnIndex(header, d.Manifest.Format.PhonesColumn, phonesIdx); err != nil {
			return err
		}
	}

	var collisions int
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if keyIdx >= len(record) || phonesIdx >= len(record) {
			continue
		}
		key := d.normalize(strings.TrimSpace(record[keyIdx]))
		phones := ParsePhones(record[phonesIdx])
		if key == "" || len(phones) == 0 {
			continue
		}
		if _, exists := d.Entries[key]; exists {
			collisions++
			continue
		}
		d.Entries[key] = &Entry{Phones: phones}
	}

	if collisions > 0 {
		slog.Warn("key collisions after normalization", "dict", d.Manifest.ID, "collisions", collisions)
	}
	return nil
}

func columnIndex(header []string, name string, def int) (int, error) {
	if name == "" {
		return def, nil
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header %v", name, header)
}

// Lookup searches for a word in this dictionary after normalization.
func (d *Dictionary) Lookup(word string) (*Entry, bool) {
	e, ok := d.Entries[d.normalize(word)]
	return e, ok
}

// Pronounce returns the phones of word, if present.
func (d *Dictionary) Pronounce(word string) ([]Phone, bool) {
	e, ok := d.Lookup(word)
	if !ok {
		return nil, false
	}
	return e.Phones, true
}

// NormalizeTerm applies this dictionary's normalizer to a word.
func (d *Dictionary) NormalizeTerm(word string) string {
	return d.normalize(word)
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
