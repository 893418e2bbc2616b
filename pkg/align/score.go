package align

// DefaultPassThreshold is the accuracy at which an attempt counts as good.
const DefaultPassThreshold = 0.8

// Accuracy summarizes a diff. Extra words are informational: they never
// count as expected and never count as matched.
type Accuracy struct {
	Matched  int     `json:"matched"`
	Expected int     `json:"expected"`
	Accuracy float64 `json:"accuracy"`
}

// Passed reports whether the accuracy reaches threshold.
func (a Accuracy) Passed(threshold float64) bool {
	return a.Expected > 0 && a.Accuracy >= threshold
}

// Score reduces tokens to matched/expected counts.
func Score(tokens []DiffToken) Accuracy {
	var a Accuracy
	for _, t := range tokens {
		switch t.(type) {
		case Ok:
			a.Matched++
			a.Expected++
		case Missing, Substituted:
			a.Expected++
		case Extra:
		}
	}
	if a.Expected > 0 {
		a.Accuracy = float64(a.Matched) / float64(a.Expected)
	}
	return a
}

// Label renders a token the way the practice UI shows it:
// the expected word, "+actual" for extras, "expected(actual)" for substitutions.
func Label(t DiffToken) string {
	switch v := t.(type) {
	case Ok:
		return v.Expected
	case Missing:
		return v.Expected
	case Extra:
		return "+" + v.Actual
	case Substituted:
		return v.Expected + "(" + v.Actual + ")"
	default:
		return ""
	}
}

// Labels renders every token with Label.
func Labels(tokens []DiffToken) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Label(t)
	}
	return out
}
