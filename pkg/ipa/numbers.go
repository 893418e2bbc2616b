package ipa

import (
	"strconv"
	"strings"

	"github.com/hazyhaar/phonocoach/pkg/text"
)

var onesWords = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tensWords = map[int]string{20: "twenty", 30: "thirty", 40: "forty", 50: "fifty"}

// NumberWords spells n in English words. Only 0 through 59 are covered,
// enough for clock minutes and small counts; anything else yields nil.
func NumberWords(n int) []string {
	switch {
	case n < 0:
		return nil
	case n < len(onesWords):
		return []string{onesWords[n]}
	}
	if w, ok := tensWords[n]; ok {
		return []string{w}
	}
	if n > 20 && n < 60 {
		return []string{tensWords[n/10*10], onesWords[n%10]}
	}
	return nil
}

// expandNumeric spells out clock times and integers. A clock expands
// only when both its hour and minute do; otherwise, like an integer out
// of range, it passes through literally.
func expandNumeric(w text.Word) []string {
	switch w.Kind {
	case text.ClockKind:
		hRaw, mRaw, _ := strings.Cut(w.Text, ":")
		h, herr := strconv.Atoi(hRaw)
		m, merr := strconv.Atoi(mRaw)
		if herr != nil || merr != nil {
			return []string{w.Text}
		}
		hw, mw := NumberWords(h), NumberWords(m)
		if hw == nil || mw == nil {
			return []string{w.Text}
		}
		return append(hw, mw...)
	case text.IntegerKind:
		n, err := strconv.Atoi(w.Text)
		if err != nil {
			return []string{w.Text}
		}
		if words := NumberWords(n); words != nil {
			return words
		}
		return []string{w.Text}
	default:
		return []string{w.Text}
	}
}
