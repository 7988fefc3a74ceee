// Package scoring compares submitted answers against a quiz's answer key
// and ranks submissions against each other.
package scoring

import (
	"sort"
	"strings"

	"github.com/quizforge/quizforge-backend/internal/model"
)

// Normalize lower-cases and trims an answer letter for comparison.
func Normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// Score counts positional matches between the submitted answers and the
// correct answers. A nil entry is an unanswered question and never matches.
// The comparison is case-insensitive. Total is len(correct).
func Score(submitted []*string, correct []string) int {
	score := 0
	for i, key := range correct {
		if i >= len(submitted) || submitted[i] == nil {
			continue
		}
		if Normalize(*submitted[i]) == Normalize(key) {
			score++
		}
	}
	return score
}

// Review builds the per-question breakdown stored with a submission.
func Review(submitted []*string, correct []string) []model.AnswerReview {
	review := make([]model.AnswerReview, len(correct))
	for i, key := range correct {
		var ans *string
		if i < len(submitted) {
			ans = submitted[i]
		}
		review[i] = model.AnswerReview{
			QuestionIndex: i,
			Submitted:     ans,
			Correct:       Normalize(key),
			IsCorrect:     ans != nil && Normalize(*ans) == Normalize(key),
		}
	}
	return review
}

// Less orders two submissions for ranking: higher score first, then faster
// completion time (a missing time sorts last), then earlier submission
// timestamp, then submission id. The id comparison makes the order total
// and deterministic even for byte-identical performances.
func Less(a, b *model.Submission) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	at, bt := completionOrInf(a), completionOrInf(b)
	if at != bt {
		return at < bt
	}
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.Before(b.SubmittedAt)
	}
	return a.ID.String() < b.ID.String()
}

func completionOrInf(s *model.Submission) float64 {
	if s.CompletionTime == nil {
		return maxFloat
	}
	return *s.CompletionTime
}

const maxFloat = float64(1<<62) // effectively +inf for completion seconds

// Sort orders submissions into ranking order in place.
func Sort(subs []*model.Submission) {
	sort.SliceStable(subs, func(i, j int) bool { return Less(subs[i], subs[j]) })
}

// Rank returns the 1-based position of the target submission among all
// submissions for the same quiz, or -1 if it is not present.
func Rank(target *model.Submission, all []*model.Submission) int {
	ordered := make([]*model.Submission, len(all))
	copy(ordered, all)
	Sort(ordered)
	for i, s := range ordered {
		if s.ID == target.ID {
			return i + 1
		}
	}
	return -1
}

// Leaderboard produces the ordered leaderboard view for a quiz, capped at
// limit entries (0 means no cap). names maps user ids to display names;
// missing users appear as "Unknown User".
func Leaderboard(subs []*model.Submission, names map[string]string, limit int) []model.LeaderboardEntry {
	ordered := make([]*model.Submission, len(subs))
	copy(ordered, subs)
	Sort(ordered)

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	entries := make([]model.LeaderboardEntry, 0, len(ordered))
	for i, s := range ordered {
		name, ok := names[s.UserID.String()]
		if !ok {
			name = "Unknown User"
		}
		entries = append(entries, model.LeaderboardEntry{
			Rank:           i + 1,
			UserName:       name,
			Score:          s.Score,
			Total:          s.Total,
			CompletionTime: s.CompletionTime,
			SubmittedAt:    s.SubmittedAt,
		})
	}
	return entries
}
