package text

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("  Hello, World!  — it’s ok ")
	want := []Token{
		{Surface: "Hello,", Normalized: "hello"},
		{Surface: "World!", Normalized: "world"},
		{Surface: "it’s", Normalized: "it's"},
		{Surface: "ok", Normalized: "ok"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %#v, want %#v", got, want)
	}
}

func TestTokenize_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "?! ..."} {
		if got := Tokenize(input); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want empty", input, got)
		}
	}
}

func TestWords(t *testing.T) {
	got := Words("Meet me at 7:30, not 10-ish — I’m LATE 123")
	want := []Word{
		{"meet", WordKind},
		{"me", WordKind},
		{"at", WordKind},
		{"7:30", ClockKind},
		{"not", WordKind},
		{"10", IntegerKind},
		{"ish", WordKind},
		{"i'm", WordKind},
		{"late", WordKind},
		{"123", IntegerKind},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_ClockNeedsTwoMinuteDigits(t *testing.T) {
	got := Words("123:45 9:5")
	want := []Word{
		{"123", IntegerKind},
		{"45", IntegerKind},
		{"9", IntegerKind},
		{"5", IntegerKind},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestLetterWords(t *testing.T) {
	got := LetterWords("Perché l’acqua è fredda? Ciao-ciao!")
	want := []string{"Perché", "l'acqua", "è", "fredda", "Ciao", "ciao"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LetterWords = %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	if WordKind.String() != "word" || ClockKind.String() != "clock" || IntegerKind.String() != "integer" {
		t.Error("unexpected Kind names")
	}
}
