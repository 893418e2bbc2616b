package ipa

import (
	"strings"

	"github.com/hazyhaar/phonocoach/pkg/dict"
)

// Supported locale bases.
const (
	LocaleEnglish = "en"
	LocaleItalian = "it"
)

// Engine dispatches transcription by locale and memoizes the results.
type Engine struct {
	english *English
	italian Italian
	cache   *Cache
}

// NewEngine returns an engine whose English transcriber uses lex.
func NewEngine(lex Lexicon) *Engine {
	return &Engine{
		english: NewEnglish(lex),
		cache:   NewCache(),
	}
}

// Transcribe returns the IPA of s for locale. An empty locale means
// English and region subtags are ignored ("en-GB" is English). Locales
// without a transcriber yield "".
func (e *Engine) Transcribe(s, locale string) string {
	base := dict.BaseLocale(locale)
	if base == "" {
		base = LocaleEnglish
	}
	if base != LocaleEnglish && base != LocaleItalian {
		return ""
	}

	key := strings.TrimSpace(s)
	if key == "" {
		return Placeholder
	}
	gen := e.cache.Generation()
	if v, ok := e.cache.Get(base, key); ok {
		return v
	}

	var out string
	if base == LocaleItalian {
		out = e.italian.Transcribe(key)
	} else {
		out = e.english.Transcribe(key)
	}
	e.cache.Put(gen, base, key, out)
	return out
}

// Supported reports whether locale has a transcriber.
func Supported(locale string) bool {
	switch dict.BaseLocale(locale) {
	case "", LocaleEnglish, LocaleItalian:
		return true
	}
	return false
}

// Reset clears memoized transcriptions, e.g. after the lexicon changed.
func (e *Engine) Reset() {
	e.cache.Reset()
}

// Stats is a snapshot of the engine's counters.
type Stats struct {
	CacheHits     uint64 `json:"cache_hits"`
	CacheMisses   uint64 `json:"cache_misses"`
	CacheSize     int    `json:"cache_size"`
	LexiconHits   uint64 `json:"lexicon_hits"`
	LexiconMisses uint64 `json:"lexicon_misses"`
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	lh, lm := e.english.LexiconStats()
	return Stats{
		CacheHits:     e.cache.hits.Load(),
		CacheMisses:   e.cache.misses.Load(),
		CacheSize:     e.cache.Len(),
		LexiconHits:   lh,
		LexiconMisses: lm,
	}
}
