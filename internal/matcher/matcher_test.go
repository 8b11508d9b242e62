package matcher

import (
	"reflect"
	"testing"

	"jamesfarrell.me/ad-skipper/internal/models"
)

// fixedScores scores each segment text from a lookup table, ignoring the phrase
// unless a phrase-specific entry exists.
func fixedScores(scores map[string]int) ScoreFunc {
	return func(text, phrase string) int {
		if s, ok := scores[phrase+"|"+text]; ok {
			return s
		}
		return scores[text]
	}
}

func TestMatchAcmeScenario(t *testing.T) {
	segments := []models.Segment{
		{Text: "today's video is brought to you by Acme", Start: 12, Duration: 3},
		{Text: "back to our regular programming", Start: 20, Duration: 3},
	}
	guess := models.AdSpanGuess{Start: "brought to you by Acme", End: "regular programming"}

	got := New(DefaultThreshold).Match(segments, guess)
	if !got.Found() {
		t.Fatalf("Match() found = false, want both segments")
	}
	if got.Start.Start != 12 {
		t.Errorf("start segment at %v, want 12", got.Start.Start)
	}
	if got.End.Start != 20 || got.End.Duration != 3 {
		t.Errorf("end segment = %+v, want start 20 duration 3", *got.End)
	}
}

func TestMatchUnrelatedGuess(t *testing.T) {
	segments := []models.Segment{
		{Text: "today's video is brought to you by Acme", Start: 12, Duration: 3},
		{Text: "back to our regular programming", Start: 20, Duration: 3},
	}
	guess := models.AdSpanGuess{Start: "qqqq zzzz", End: "xxxx"}

	got := New(DefaultThreshold).Match(segments, guess)
	if got.Start != nil || got.End != nil {
		t.Errorf("Match() = %+v, want no segments", got)
	}
}

func TestMatchEmptySegments(t *testing.T) {
	got := New(DefaultThreshold).Match(nil, models.AdSpanGuess{Start: "a", End: "b"})
	if got.Start != nil || got.End != nil {
		t.Errorf("Match(nil) = %+v, want no segments", got)
	}
}

func TestMatchThreshold(t *testing.T) {
	tests := []struct {
		name      string
		scores    map[string]int
		wantStart float64
		wantFound bool
	}{
		{
			name:      "exactly at threshold is rejected",
			scores:    map[string]int{"a": 70, "b": 10},
			wantFound: false,
		},
		{
			name:      "just above threshold is accepted",
			scores:    map[string]int{"a": 71, "b": 10},
			wantStart: 12,
			wantFound: true,
		},
		{
			name:      "best below threshold after an early leader",
			scores:    map[string]int{"a": 40, "b": 65},
			wantFound: false,
		},
		{
			name:      "later higher score replaces earlier",
			scores:    map[string]int{"a": 75, "b": 90},
			wantStart: 20,
			wantFound: true,
		},
		{
			name:      "tie keeps the earlier segment",
			scores:    map[string]int{"a": 88, "b": 88},
			wantStart: 12,
			wantFound: true,
		},
	}

	segments := []models.Segment{
		{Text: "a", Start: 12, Duration: 1},
		{Text: "b", Start: 20, Duration: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Matcher{Threshold: DefaultThreshold, Score: fixedScores(tt.scores)}
			got := m.Match(segments, models.AdSpanGuess{Start: "start", End: "end"})
			if (got.Start != nil) != tt.wantFound {
				t.Fatalf("start found = %v, want %v", got.Start != nil, tt.wantFound)
			}
			if tt.wantFound && got.Start.Start != tt.wantStart {
				t.Errorf("start segment at %v, want %v", got.Start.Start, tt.wantStart)
			}
		})
	}
}

func TestMatchPhrasesAreIndependent(t *testing.T) {
	segments := []models.Segment{
		{Text: "sponsor intro", Start: 11},
		{Text: "sponsor outro", Start: 40},
		{Text: "content", Start: 55},
	}
	m := &Matcher{
		Threshold: DefaultThreshold,
		Score: fixedScores(map[string]int{
			"start|sponsor intro": 95,
			"start|sponsor outro": 60,
			"end|sponsor intro":   50,
			"end|sponsor outro":   92,
		}),
	}

	got := m.Match(segments, models.AdSpanGuess{Start: "start", End: "end"})
	if got.Start == nil || got.Start.Start != 11 {
		t.Errorf("start = %+v, want segment at 11", got.Start)
	}
	if got.End == nil || got.End.Start != 40 {
		t.Errorf("end = %+v, want segment at 40", got.End)
	}
}

func TestMatchSameSegmentForBoth(t *testing.T) {
	segments := []models.Segment{{Text: "this short ad is brought to you by Acme thanks Acme", Start: 30, Duration: 4}}
	got := New(DefaultThreshold).Match(segments, models.AdSpanGuess{Start: "brought to you by Acme", End: "thanks Acme"})
	if !got.Found() || got.Start != got.End {
		t.Errorf("Match() = %+v, want the same segment for start and end", got)
	}
}

func TestMatchNeverReturnsLowScores(t *testing.T) {
	segments := []models.Segment{
		{Text: "welcome back everyone", Start: 10},
		{Text: "this episode is sponsored by Acme VPN", Start: 14},
		{Text: "use code SKIP for ten percent off", Start: 19},
		{Text: "now let's get into the build", Start: 25},
	}
	phrases := []string{"sponsored by Acme", "code SKIP", "the build", "completely different words", "zz"}
	m := New(DefaultThreshold)

	for _, start := range phrases {
		for _, end := range phrases {
			got := m.Match(segments, models.AdSpanGuess{Start: start, End: end})
			if got.Start != nil && PartialRatio(got.Start.Text, start) <= DefaultThreshold {
				t.Errorf("start %q matched %q below threshold", start, got.Start.Text)
			}
			if got.End != nil && PartialRatio(got.End.Text, end) <= DefaultThreshold {
				t.Errorf("end %q matched %q below threshold", end, got.End.Text)
			}
		}
	}
}

func TestExcludeBefore(t *testing.T) {
	segments := []models.Segment{
		{Text: "intro", Start: 0},
		{Text: "still intro", Start: 9.99},
		{Text: "edge", Start: 10},
		{Text: "later", Start: 15.5},
		{Text: "last", Start: 42},
	}
	original := append([]models.Segment(nil), segments...)

	got := ExcludeBefore(segments, DefaultCutoff)
	want := []models.Segment{segments[2], segments[3], segments[4]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExcludeBefore() = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(segments, original) {
		t.Errorf("ExcludeBefore() modified its input")
	}

	if got := ExcludeBefore(nil, DefaultCutoff); len(got) != 0 {
		t.Errorf("ExcludeBefore(nil) = %+v, want empty", got)
	}
}

func TestJoinText(t *testing.T) {
	segments := []models.Segment{{Text: "today's video"}, {Text: "is brought to you"}, {Text: "by Acme"}}
	if got, want := JoinText(segments), "today's video is brought to you by Acme"; got != want {
		t.Errorf("JoinText() = %q, want %q", got, want)
	}
	if got := JoinText(nil); got != "" {
		t.Errorf("JoinText(nil) = %q, want empty", got)
	}
}
