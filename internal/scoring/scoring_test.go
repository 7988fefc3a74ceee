package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/model"
)

func strptr(s string) *string { return &s }

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		submitted []*string
		correct   []string
		want      int
	}{
		{
			name:      "mixed answers with nil and mismatch",
			submitted: []*string{strptr("a"), strptr("x"), nil, strptr("d")},
			correct:   []string{"a", "b", "c", "d"},
			want:      2,
		},
		{
			name:      "all correct",
			submitted: []*string{strptr("a"), strptr("b"), strptr("c"), strptr("d")},
			correct:   []string{"a", "b", "c", "d"},
			want:      4,
		},
		{
			name:      "case insensitive match",
			submitted: []*string{strptr("A"), strptr(" B "), strptr("C"), strptr("D")},
			correct:   []string{"a", "b", "c", "d"},
			want:      4,
		},
		{
			name:      "all unanswered",
			submitted: []*string{nil, nil, nil, nil},
			correct:   []string{"a", "b", "c", "d"},
			want:      0,
		},
		{
			name:      "short submission never panics",
			submitted: []*string{strptr("a")},
			correct:   []string{"a", "b", "c"},
			want:      1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.submitted, tt.correct); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReview(t *testing.T) {
	submitted := []*string{strptr("a"), strptr("x"), nil}
	correct := []string{"A", "b", "c"}

	review := Review(submitted, correct)
	if len(review) != 3 {
		t.Fatalf("Review() returned %d entries, want 3", len(review))
	}
	if !review[0].IsCorrect || review[0].Correct != "a" {
		t.Errorf("first answer should be correct against normalized key, got %+v", review[0])
	}
	if review[1].IsCorrect {
		t.Error("mismatched answer marked correct")
	}
	if review[2].IsCorrect || review[2].Submitted != nil {
		t.Errorf("unanswered question must stay nil and incorrect, got %+v", review[2])
	}
}

func newSubmission(score int, completion float64, submittedAt time.Time) *model.Submission {
	return &model.Submission{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Score:          score,
		Total:          10,
		CompletionTime: &completion,
		SubmittedAt:    submittedAt,
	}
}

func TestRankOrdering(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	slow10 := newSubmission(10, 150, at)
	fast10 := newSubmission(10, 90, at)
	eight := newSubmission(8, 120, at)
	all := []*model.Submission{eight, slow10, fast10}

	if got := Rank(fast10, all); got != 1 {
		t.Errorf("rank of (10, 90s) = %d, want 1", got)
	}
	if got := Rank(slow10, all); got != 2 {
		t.Errorf("rank of (10, 150s) = %d, want 2", got)
	}
	if got := Rank(eight, all); got != 3 {
		t.Errorf("rank of (8, 120s) = %d, want 3", got)
	}
}

func TestRankMissingCompletionSortsLast(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	timed := newSubmission(5, 300, at)
	untimed := &model.Submission{ID: uuid.New(), UserID: uuid.New(), Score: 5, Total: 10, SubmittedAt: at}

	all := []*model.Submission{untimed, timed}
	if got := Rank(timed, all); got != 1 {
		t.Errorf("submission with a completion time must outrank one without, got rank %d", got)
	}
}

func TestRankDeterministicTieBreak(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := newSubmission(7, 100, at)
	b := newSubmission(7, 100, at)

	// Identical score, time and timestamp: the submission id decides,
	// so the order is stable across shuffles.
	r1a, r1b := Rank(a, []*model.Submission{a, b}), Rank(b, []*model.Submission{a, b})
	r2a, r2b := Rank(a, []*model.Submission{b, a}), Rank(b, []*model.Submission{b, a})

	if r1a == r1b {
		t.Fatal("tied submissions must still receive distinct positions")
	}
	if r1a != r2a || r1b != r2b {
		t.Errorf("tie-break order changed with input order: (%d,%d) vs (%d,%d)", r1a, r1b, r2a, r2b)
	}
}

func TestRankNotPresent(t *testing.T) {
	at := time.Now().UTC()
	in := newSubmission(5, 60, at)
	out := newSubmission(6, 60, at)
	if got := Rank(out, []*model.Submission{in}); got != -1 {
		t.Errorf("Rank() for an absent submission = %d, want -1", got)
	}
}

func TestLeaderboard(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := newSubmission(10, 90, at)
	second := newSubmission(10, 150, at)
	third := newSubmission(8, 120, at)

	names := map[string]string{
		first.UserID.String():  "Asha",
		second.UserID.String(): "Bela",
	}

	entries := Leaderboard([]*model.Submission{third, second, first}, names, 20)
	if len(entries) != 3 {
		t.Fatalf("Leaderboard() returned %d entries, want 3", len(entries))
	}
	if entries[0].UserName != "Asha" || entries[0].Rank != 1 {
		t.Errorf("first entry = %+v, want Asha at rank 1", entries[0])
	}
	if entries[1].UserName != "Bela" || entries[1].Rank != 2 {
		t.Errorf("second entry = %+v, want Bela at rank 2", entries[1])
	}
	if entries[2].UserName != "Unknown User" {
		t.Errorf("missing user should render as Unknown User, got %q", entries[2].UserName)
	}

	capped := Leaderboard([]*model.Submission{third, second, first}, names, 2)
	if len(capped) != 2 {
		t.Errorf("Leaderboard() with limit 2 returned %d entries", len(capped))
	}
}
