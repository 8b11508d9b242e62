package matcher

import (
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// PartialRatio scores how well the shorter of a and b appears inside the
// longer one, from 0 to 100. It slides the shorter string over the windows
// of the longer string suggested by the difflib matching blocks and keeps
// the best window ratio, so "brought to you by Acme" scores 100 against
// "today's video is brought to you by Acme".
func PartialRatio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := runes(a), runes(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	var best float64
	for _, block := range difflib.NewMatcher(shorter, longer).GetMatchingBlocks() {
		start := max(block.B-block.A, 0)
		end := min(start+len(shorter), len(longer))

		r := difflib.NewMatcher(shorter, longer[start:end]).Ratio()
		if r > 0.995 {
			return 100
		}
		best = max(best, r)
	}
	return int(math.RoundToEven(100 * best))
}

// runes splits s into one-character elements for difflib.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
