package matcher

import (
	"strings"

	"jamesfarrell.me/ad-skipper/internal/models"
)

const (
	// DefaultThreshold is the score a segment must strictly exceed to be accepted.
	DefaultThreshold = 70
	// DefaultCutoff is the number of leading seconds never treated as ad content.
	DefaultCutoff = 10.0
)

// ScoreFunc rates how well phrase matches a segment's text, from 0 to 100.
type ScoreFunc func(text, phrase string) int

type Matcher struct {
	Threshold int
	Score     ScoreFunc
}

func New(threshold int) *Matcher {
	return &Matcher{Threshold: threshold, Score: PartialRatio}
}

type candidate struct {
	segment *models.Segment
	score   int
}

// better reports whether c should replace best. Only a strictly higher score
// wins, so on ties the segment seen first (the earlier one) is kept.
func better(c, best candidate) bool {
	if best.segment == nil {
		return true
	}
	return c.score > best.score
}

// Match locates the segments closest to the guessed start and end phrases.
// Either side of the result is nil when no segment clears the threshold.
func (m *Matcher) Match(segments []models.Segment, guess models.AdSpanGuess) models.MatchResult {
	return models.MatchResult{
		Start: m.find(segments, guess.Start),
		End:   m.find(segments, guess.End),
	}
}

func (m *Matcher) find(segments []models.Segment, phrase string) *models.Segment {
	var best candidate
	for i := range segments {
		c := candidate{segment: &segments[i], score: m.Score(segments[i].Text, phrase)}
		if better(c, best) {
			best = c
		}
	}
	if best.segment == nil || best.score <= m.Threshold {
		return nil
	}
	return best.segment
}

// ExcludeBefore returns the segments starting at or after cutoff seconds,
// in their original order.
func ExcludeBefore(segments []models.Segment, cutoff float64) []models.Segment {
	kept := make([]models.Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.Start >= cutoff {
			kept = append(kept, seg)
		}
	}
	return kept
}

// JoinText concatenates segment texts with single spaces.
func JoinText(segments []models.Segment) string {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return strings.Join(texts, " ")
}
