package text

import "testing"

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Hello,", "hello"},
		{"Café", "cafe"},
		{"naïve", "naive"},
		{"don’t", "don't"},
		{"'quoted'", "quoted"},
		{"¿Qué?", "que"},
		{"3rd", "3rd"},
		{"...", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeWord(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStripMarks(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"città", "citta"},
		{"perché", "perche"},
		{"Ñoño", "Nono"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		got := StripMarks(tt.input)
		if got != tt.want {
			t.Errorf("StripMarks(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"  I’m   fine! ", "i'm fine"},
		{"Está BIEN.", "esta bien"},
		{"went", "went"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeAnswer(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
