// Package align diffs an expected phrase against a recognized transcript
// at word granularity and scores the result.
package align

import "encoding/json"

// Kind names the outcome of one aligned position.
type Kind int

const (
	KindOK Kind = iota
	KindMissing
	KindExtra
	KindSubstituted
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindMissing:
		return "missing"
	case KindExtra:
		return "extra"
	case KindSubstituted:
		return "substituted"
	default:
		return "unknown"
	}
}

// DiffToken is one step of an alignment path. The concrete types are
// Ok, Missing, Extra and Substituted; the set is closed.
type DiffToken interface {
	Kind() Kind
	diffToken()
}

// Ok is a target word the speaker said as expected.
type Ok struct {
	Expected string
	Actual   string
}

// Missing is a target word absent from the transcript.
type Missing struct {
	Expected string
}

// Extra is a transcript word with no counterpart in the target.
type Extra struct {
	Actual string
}

// Substituted is a target word aligned with a different spoken word.
type Substituted struct {
	Expected string
	Actual   string
}

func (Ok) Kind() Kind          { return KindOK }
func (Missing) Kind() Kind     { return KindMissing }
func (Extra) Kind() Kind       { return KindExtra }
func (Substituted) Kind() Kind { return KindSubstituted }

func (Ok) diffToken()          {}
func (Missing) diffToken()     {}
func (Extra) diffToken()       {}
func (Substituted) diffToken() {}

// wireToken is the JSON shape shared by every variant.
type wireToken struct {
	Status   string `json:"status"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

func (t Ok) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireToken{Status: KindOK.String(), Expected: t.Expected, Actual: t.Actual})
}

func (t Missing) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireToken{Status: KindMissing.String(), Expected: t.Expected})
}

func (t Extra) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireToken{Status: KindExtra.String(), Actual: t.Actual})
}

func (t Substituted) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireToken{Status: KindSubstituted.String(), Expected: t.Expected, Actual: t.Actual})
}

// Decode rebuilds diff tokens from their JSON wire form, so clients can
// submit a previously computed diff for scoring.
func Decode(data []byte) ([]DiffToken, error) {
	var wire []wireToken
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	tokens := make([]DiffToken, 0, len(wire))
	for _, w := range wire {
		switch w.Status {
		case "ok":
			tokens = append(tokens, Ok{Expected: w.Expected, Actual: w.Actual})
		case "missing":
			tokens = append(tokens, Missing{Expected: w.Expected})
		case "extra":
			tokens = append(tokens, Extra{Actual: w.Actual})
		case "substituted":
			tokens = append(tokens, Substituted{Expected: w.Expected, Actual: w.Actual})
		default:
			return nil, &UnknownStatusError{Status: w.Status}
		}
	}
	return tokens, nil
}

// UnknownStatusError reports a wire token whose status is not one of the
// four known kinds.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return "unknown diff token status " + `"` + e.Status + `"`
}
