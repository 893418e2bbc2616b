package align

import (
	"github.com/antzucaro/matchr"

	"github.com/hazyhaar/phonocoach/pkg/text"
)

// NearMiss describes how close a substituted word came to the target.
type NearMiss struct {
	Expected    string  `json:"expected"`
	Actual      string  `json:"actual"`
	Similarity  float64 `json:"similarity"`
	SoundsAlike bool    `json:"sounds_alike"`
}

// NearMisses scores every Substituted token: Jaro-Winkler similarity on
// the normalized spellings, plus whether their Double Metaphone codes
// overlap. A recognizer that heard "sheep" for "ship" sounds alike; one
// that heard "dog" for "ship" does not.
func NearMisses(tokens []DiffToken) []NearMiss {
	var out []NearMiss
	for _, t := range tokens {
		sub, ok := t.(Substituted)
		if !ok {
			continue
		}
		exp := text.NormalizeWord(sub.Expected)
		act := text.NormalizeWord(sub.Actual)
		out = append(out, NearMiss{
			Expected:    sub.Expected,
			Actual:      sub.Actual,
			Similarity:  matchr.JaroWinkler(exp, act, false),
			SoundsAlike: metaphoneOverlap(exp, act),
		})
	}
	return out
}

func metaphoneOverlap(a, b string) bool {
	ap, as := matchr.DoubleMetaphone(a)
	bp, bs := matchr.DoubleMetaphone(b)
	for _, x := range []string{ap, as} {
		if x == "" {
			continue
		}
		if x == bp || x == bs {
			return true
		}
	}
	return false
}
