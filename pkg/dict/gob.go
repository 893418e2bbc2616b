package dict

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// ReadGob decodes a gob-encoded entry map.
func ReadGob(r io.Reader) (map[string]*Entry, error) {
	var entries map[string]*Entry
	if err := gob.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}
	if entries == nil {
		entries = make(map[string]*Entry)
	}
	return entries, nil
}

// SaveGob serializes entries to a gob-encoded file at path.
func SaveGob(entries map[string]*Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(entries); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return f.Close()
}
