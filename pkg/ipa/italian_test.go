package ipa

import "testing"

func TestItalianTranscribe(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Ciao, come stai?", "/tʃao kome stai/"},
		{"Buongiorno", "/buondʒorno/"},
		{"Grazie mille", "/gratsie mille/"},
		{"Gli gnocchi", "/ʎi ɲokki/"},
		{"Perché?", "/perke/"},
		{"Quanto costa", "/kwanto kosta/"},
		{"Vorrei un caffè, per favore.", "/vorrei un kaffe per favore/"},
		{"Arrivederci!", "/arrivedertʃi/"},
		{"2024", Placeholder},
		{"   ", Placeholder},
	}
	for _, tt := range tests {
		if got := (Italian{}).Transcribe(tt.input); got != tt.want {
			t.Errorf("Transcribe(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestItalianWord(t *testing.T) {
	tests := []struct {
		word, want string
	}{
		{"l'acqua", "lakkwa"},
		{"l’acqua", "lakkwa"},
		{"pesce", "peʃe"},
		{"scheda", "skeda"},
		{"città", "tʃitta"},
		{"hotel", "otel"},
		{"famiglia", "famiʎia"},
		{"spaghetti", "spagetti"},
		{"giusto", "dʒusto"},
		{"gelato", "dʒelato"},
		{"cena", "tʃena"},
		{"sci", "ʃi"},
		{"zio", "tsio"},
		{"taxi", "taksi"},
		{"ß", ""},
		{"42", ""},
	}
	for _, tt := range tests {
		if got := italianWord(tt.word); got != tt.want {
			t.Errorf("italianWord(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestItalianRuleOrder(t *testing.T) {
	// Earlier rules shadow later ones: "sch" must not be read as "sc"+"h".
	if italianRules[3].prefix != "sch" || italianRules[6].prefix != "sc" {
		t.Fatalf("unexpected rule layout: %+v", italianRules)
	}
	if got := italianWord("schiena"); got != "skiena" {
		t.Errorf("schiena = %q, want skiena", got)
	}
}
