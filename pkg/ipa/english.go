package ipa

import (
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/hazyhaar/phonocoach/pkg/dict"
	"github.com/hazyhaar/phonocoach/pkg/text"
)

// Placeholder is the transcription of text with nothing to transcribe.
const Placeholder = "/…/"

// Lexicon resolves a lowercase word to its ARPABET pronunciation.
// *dict.Dictionary and *dict.LocaleView both satisfy it.
type Lexicon interface {
	Pronounce(word string) ([]dict.Phone, bool)
}

var contractions = map[string][]string{
	"i'm":     {"i", "am"},
	"i'd":     {"i", "would"},
	"i'll":    {"i", "will"},
	"you're":  {"you", "are"},
	"we're":   {"we", "are"},
	"they're": {"they", "are"},
	"it's":    {"it", "is"},
	"that's":  {"that", "is"},
	"there's": {"there", "is"},
	"what's":  {"what", "is"},
	"don't":   {"do", "not"},
	"doesn't": {"does", "not"},
	"didn't":  {"did", "not"},
	"can't":   {"can", "not"},
}

// English transcribes English text through a pronunciation lexicon,
// spelling words the lexicon lacks with letter rules.
type English struct {
	lex    Lexicon
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewEnglish returns a transcriber backed by lex.
func NewEnglish(lex Lexicon) *English {
	return &English{lex: lex}
}

// Transcribe returns the slash-wrapped IPA of s, or Placeholder when s
// has no words.
func (e *English) Transcribe(s string) string {
	var words []string
	for _, w := range text.Words(s) {
		for _, n := range expandNumeric(w) {
			words = append(words, e.word(n)...)
		}
	}
	return wrap(words)
}

func (e *English) word(w string) []string {
	parts, ok := contractions[w]
	if !ok {
		parts = []string{w}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if phones, ok := e.lex.Pronounce(p); ok {
			e.hits.Add(1)
			out = append(out, PhonesToIPA(phones))
			continue
		}
		e.misses.Add(1)
		if spelled := spellIPA(p); spelled != "" {
			out = append(out, spelled)
		} else {
			out = append(out, p)
		}
	}
	return out
}

// LexiconStats reports lexicon hits and misses since creation.
func (e *English) LexiconStats() (hits, misses uint64) {
	return e.hits.Load(), e.misses.Load()
}

type anchor int

const (
	anywhere anchor = iota
	wordStart
	wordEnd
)

type letterRule struct {
	letters string
	ipa     string
	at      anchor
}

// letterRules are tried in order at every position of an unknown word.
var letterRules = []letterRule{
	{"th", "θ", wordStart},
	{"sh", "ʃ", wordStart},
	{"ch", "tʃ", wordStart},
	{"ph", "f", wordStart},
	{"ng", "ŋ", wordEnd},
	{"ee", "iː", anywhere},
	{"oo", "uː", anywhere},
	{"ai", "eɪ", anywhere},
	{"ay", "eɪ", anywhere},
}

var letterIPA = map[rune]string{
	'a': "æ", 'e': "e", 'i': "ɪ", 'o': "ɒ", 'u': "ʌ",
	'y': "j", 'c': "k", 'q': "k", 'x': "ks",
}

// spellIPA guesses the IPA of a word missing from the lexicon. It scans
// left to right; IPA already emitted is never rewritten, so the vowel
// inside "iː" is not remapped to "ɪ".
func spellIPA(word string) string {
	w := strings.ReplaceAll(word, "'", "")
	var b strings.Builder
	for i := 0; i < len(w); {
		if r, ok := matchLetterRule(w, i); ok {
			b.WriteString(r.ipa)
			i += len(r.letters)
			continue
		}
		c, size := utf8.DecodeRuneInString(w[i:])
		if s, ok := letterIPA[c]; ok {
			b.WriteString(s)
		} else {
			b.WriteRune(c)
		}
		i += size
	}
	return b.String()
}

func matchLetterRule(w string, i int) (letterRule, bool) {
	for _, r := range letterRules {
		if !strings.HasPrefix(w[i:], r.letters) {
			continue
		}
		switch r.at {
		case wordStart:
			if i != 0 {
				continue
			}
		case wordEnd:
			if i+len(r.letters) != len(w) {
				continue
			}
		}
		return r, true
	}
	return letterRule{}, false
}

// wrap joins IPA words, collapses whitespace and adds the slashes.
func wrap(words []string) string {
	joined := strings.Join(strings.Fields(strings.Join(words, " ")), " ")
	if joined == "" {
		return Placeholder
	}
	return "/" + joined + "/"
}
