// Package dict loads pronunciation dictionaries and serves word lookups.
//
// A dictionary is a directory holding a manifest.yaml and one data file:
// CMU pronouncing-dictionary text, a CSV with word and phone columns, or
// a data.gob written by the importer. The registry loads every dictionary
// under a root directory and always falls back to a small embedded English
// dictionary, so lookups work with nothing on disk.
package dict

import (
	"regexp"
	"strings"
)

// Stress is the lexical stress digit carried by an ARPABET vowel.
type Stress int8

const (
	NoStress  Stress = -1
	Unstress  Stress = 0
	Primary   Stress = 1
	Secondary Stress = 2
)

// Phone is one ARPABET phone, e.g. {"AH", 0} for "AH0".
type Phone struct {
	Symbol string `json:"symbol"`
	Stress Stress `json:"stress"`
}

func (p Phone) String() string {
	if p.Stress == NoStress {
		return p.Symbol
	}
	return p.Symbol + string(rune('0'+p.Stress))
}

var phoneRe = regexp.MustCompile(`^[A-Z]+[0-2]?$`)

// ParsePhones parses a space-separated ARPABET sequence such as
// "HH AH0 L OW1". Tokens that are not a phone are skipped.
func ParsePhones(s string) []Phone {
	fields := strings.Fields(s)
	phones := make([]Phone, 0, len(fields))
	for _, f := range fields {
		f = strings.ToUpper(f)
		if !phoneRe.MatchString(f) {
			continue
		}
		p := Phone{Symbol: f, Stress: NoStress}
		if last := f[len(f)-1]; last >= '0' && last <= '2' {
			p.Symbol = f[:len(f)-1]
			p.Stress = Stress(last - '0')
		}
		phones = append(phones, p)
	}
	return phones
}

// FormatPhones is the inverse of ParsePhones.
func FormatPhones(phones []Phone) string {
	parts := make([]string, len(phones))
	for i, p := range phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
