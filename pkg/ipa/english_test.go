package ipa

import (
	"reflect"
	"testing"

	"github.com/hazyhaar/phonocoach/pkg/dict"
	"github.com/hazyhaar/phonocoach/pkg/text"
)

func coreLexicon(t *testing.T) Lexicon {
	t.Helper()
	core, err := dict.Core()
	if err != nil {
		t.Fatalf("dict.Core: %v", err)
	}
	return core
}

func TestPhonesToIPA(t *testing.T) {
	tests := []struct {
		arpabet string
		want    string
	}{
		{"HH AH0 L OW1", "həlˈoʊ"},
		{"K AH1 P", "kˈʌp"},
		{"AH2 N D ER0 S T AE1 N D", "ˌʌndɜːrstˈænd"},
		{"DH AH0", "ðə"},
		{"AH", "ʌ"},
		{"TH ER1 D IY0", "θˈɜːrdiː"},
		{"QX1 T", "qxt"},
		{"G OW1 K1", "gˈoʊk"},
	}
	for _, tt := range tests {
		if got := PhonesToIPA(dict.ParsePhones(tt.arpabet)); got != tt.want {
			t.Errorf("PhonesToIPA(%q) = %q, want %q", tt.arpabet, got, tt.want)
		}
	}
}

func TestNumberWords(t *testing.T) {
	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"zero"}},
		{13, []string{"thirteen"}},
		{19, []string{"nineteen"}},
		{20, []string{"twenty"}},
		{21, []string{"twenty", "one"}},
		{45, []string{"forty", "five"}},
		{50, []string{"fifty"}},
		{59, []string{"fifty", "nine"}},
		{60, nil},
		{100, nil},
		{-1, nil},
	}
	for _, tt := range tests {
		if got := NumberWords(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NumberWords(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestExpandNumeric(t *testing.T) {
	tests := []struct {
		word text.Word
		want []string
	}{
		{text.Word{Text: "7:30", Kind: text.ClockKind}, []string{"seven", "thirty"}},
		{text.Word{Text: "12:05", Kind: text.ClockKind}, []string{"twelve", "five"}},
		{text.Word{Text: "9:75", Kind: text.ClockKind}, []string{"9:75"}},
		{text.Word{Text: "99:10", Kind: text.ClockKind}, []string{"99:10"}},
		{text.Word{Text: "42", Kind: text.IntegerKind}, []string{"forty", "two"}},
		{text.Word{Text: "123", Kind: text.IntegerKind}, []string{"123"}},
		{text.Word{Text: "99999999999999999999999", Kind: text.IntegerKind}, []string{"99999999999999999999999"}},
		{text.Word{Text: "hello", Kind: text.WordKind}, []string{"hello"}},
	}
	for _, tt := range tests {
		if got := expandNumeric(tt.word); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("expandNumeric(%q) = %v, want %v", tt.word.Text, got, tt.want)
		}
	}
}

func TestSpellIPA(t *testing.T) {
	tests := []struct {
		word, want string
	}{
		{"sheep", "ʃiːp"},
		{"keep", "kiːp"},
		{"beekeeper", "biːkiːper"},
		{"moonroof", "muːnruːf"},
		{"thing", "θɪŋ"},
		{"bath", "bæth"},
		{"phoney", "fɒnej"},
		{"rainy", "reɪnj"},
		{"play", "pleɪ"},
		{"box", "bɒks"},
		{"moon", "muːn"},
		{"known", "knɒwn"},
		{"o'neill", "ɒneɪll"},
		{"123", "123"},
	}
	for _, tt := range tests {
		if got := spellIPA(tt.word); got != tt.want {
			t.Errorf("spellIPA(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestEnglishTranscribe(t *testing.T) {
	en := NewEnglish(coreLexicon(t))
	tests := []struct {
		input, want string
	}{
		{"Nice to meet you too.", "/nˈaɪs tˈuː mˈiːt jˈuː tˈuː/"},
		{"Hi, I'm Anna", "/hˈaɪ ˈaɪ ˈæm ˈænə/"},
		{"Hi, I’m Anna", "/hˈaɪ ˈaɪ ˈæm ˈænə/"},
		{"7:30", "/sˈevən θˈɜːrdiː/"},
		{"21", "/twˈentiː wˈʌn/"},
		{"9:75", "/9:75/"},
		{"room 123", "/rˈuːm 123/"},
		{"Well-known", "/wˈel knɒwn/"},
		{"I don't know", "/ˈaɪ dˈuː nˈɑːt nˈoʊ/"},
		{"", Placeholder},
		{"?!", Placeholder},
	}
	for _, tt := range tests {
		if got := en.Transcribe(tt.input); got != tt.want {
			t.Errorf("Transcribe(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEnglishLexiconStats(t *testing.T) {
	en := NewEnglish(coreLexicon(t))
	en.Transcribe("I'm zorblax")
	hits, misses := en.LexiconStats()
	// i, am from the contraction; zorblax spelled by rule.
	if hits != 2 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 2, 1", hits, misses)
	}
}
