// Package ipa converts English and Italian text to broad IPA
// transcriptions and extracts the guide symbols a transcription uses.
package ipa

import (
	"strings"

	"github.com/hazyhaar/phonocoach/pkg/dict"
)

var arpabetIPA = map[string]string{
	"AA": "ɑː", "AE": "æ", "AH": "ʌ", "AO": "ɔː", "AW": "aʊ", "AY": "aɪ",
	"EH": "e", "ER": "ɜːr", "EY": "eɪ", "IH": "ɪ", "IY": "iː", "OW": "oʊ",
	"OY": "ɔɪ", "UH": "ʊ", "UW": "uː", "AX": "ə", "AXR": "ər",

	"B": "b", "CH": "tʃ", "D": "d", "DH": "ð", "DX": "t", "F": "f", "G": "g",
	"HH": "h", "JH": "dʒ", "K": "k", "L": "l", "M": "m", "N": "n", "NG": "ŋ",
	"P": "p", "R": "r", "S": "s", "SH": "ʃ", "T": "t", "TH": "θ", "V": "v",
	"W": "w", "Y": "j", "Z": "z", "ZH": "ʒ",
}

var arpabetVowels = map[string]bool{
	"AA": true, "AE": true, "AH": true, "AO": true, "AW": true, "AY": true,
	"EH": true, "ER": true, "EY": true, "IH": true, "IY": true, "OW": true,
	"OY": true, "UH": true, "UW": true, "AX": true, "AXR": true,
}

// PhonesToIPA renders a phone sequence as one IPA word. Primary and
// secondary stress are written before the vowel that carries them;
// unstressed AH is a schwa. Unknown phones are emitted in lowercase.
func PhonesToIPA(phones []dict.Phone) string {
	var b strings.Builder
	for _, p := range phones {
		sym, ok := arpabetIPA[p.Symbol]
		if !ok {
			b.WriteString(strings.ToLower(p.Symbol))
			continue
		}
		if p.Symbol == "AH" && p.Stress == dict.Unstress {
			sym = "ə"
		}
		if arpabetVowels[p.Symbol] {
			switch p.Stress {
			case dict.Primary:
				b.WriteString("ˈ")
			case dict.Secondary:
				b.WriteString("ˌ")
			}
		}
		b.WriteString(sym)
	}
	return b.String()
}
