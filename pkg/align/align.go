package align

import "github.com/hazyhaar/phonocoach/pkg/text"

// Op is a single edit in the alignment backpointer matrix.
type Op int

const (
	// Diagonal consumes one target and one transcript token (equal or substituted).
	Diagonal Op = iota
	// Delete consumes a target token only (the word is missing).
	Delete
	// Insert consumes a transcript token only (the word is extra).
	Insert
)

// TieBreakOrder is the preference among operations reaching the same
// minimum cost. It decides whether a mismatch is reported as one
// substitution or as a missing plus an extra word, so fixtures depend on it.
var TieBreakOrder = [3]Op{Diagonal, Delete, Insert}

// Diff tokenizes both texts and aligns them.
func Diff(targetText, transcriptText string) []DiffToken {
	return Align(text.Tokenize(targetText), text.Tokenize(transcriptText))
}

// Align runs a word-level Levenshtein alignment of transcript against
// target and returns the edit path in target order. It never fails:
// an empty side yields only Extra or only Missing tokens.
func Align(target, transcript []text.Token) []DiffToken {
	n, m := len(target), len(transcript)

	cost := make([][]int, n+1)
	back := make([][]Op, n+1)
	for i := range cost {
		cost[i] = make([]int, m+1)
		back[i] = make([]Op, m+1)
		cost[i][0] = i
		back[i][0] = Delete
	}
	for j := 1; j <= m; j++ {
		cost[0][j] = j
		back[0][j] = Insert
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := cost[i-1][j-1]
			if target[i-1].Normalized != transcript[j-1].Normalized {
				sub++
			}
			candidates := [3]int{sub, cost[i-1][j] + 1, cost[i][j-1] + 1}

			best := TieBreakOrder[0]
			for _, op := range TieBreakOrder[1:] {
				if candidates[op] < candidates[best] {
					best = op
				}
			}
			cost[i][j] = candidates[best]
			back[i][j] = best
		}
	}

	out := make([]DiffToken, 0, max(n, m))
	i, j := n, m
	for i > 0 || j > 0 {
		op := back[i][j]
		switch {
		case i > 0 && j > 0 && op == Diagonal:
			exp, act := target[i-1], transcript[j-1]
			if exp.Normalized == act.Normalized {
				out = append(out, Ok{Expected: exp.Surface, Actual: act.Surface})
			} else {
				out = append(out, Substituted{Expected: exp.Surface, Actual: act.Surface})
			}
			i--
			j--
		case i > 0 && (op == Delete || j == 0):
			out = append(out, Missing{Expected: target[i-1].Surface})
			i--
		default:
			out = append(out, Extra{Actual: transcript[j-1].Surface})
			j--
		}
	}

	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}
