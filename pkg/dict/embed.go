package dict

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"
)

// CoreID is the ID of the embedded English dictionary.
const CoreID = "cmudict-en-core"

//go:embed data
var dataFS embed.FS

// Core returns the embedded English dictionary: a CMU subset covering
// common practice-phrase vocabulary and every number word the numeric
// expander produces.
var Core = sync.OnceValues(func() (*Dictionary, error) {
	sub, err := fs.Sub(dataFS, "data/"+CoreID)
	if err != nil {
		return nil, fmt.Errorf("embedded dict: %w", err)
	}
	d, err := LoadDictionaryFS(sub)
	if err != nil {
		return nil, fmt.Errorf("embedded dict: %w", err)
	}
	d.Embedded = true
	return d, nil
})
