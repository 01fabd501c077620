// Package reputation derives reputation scores and the weekly trusted
// badge from post-session peer ratings. Every function here is a pure
// computation over caller-supplied data; the caller is responsible for
// reading a fresh score, committing the result, and serializing
// concurrent updates to the same user.
package reputation

import (
	"time"

	"github.com/studybuddy/backend/internal/domain"
)

// BadgeWindow is the trailing window the trusted badge is recomputed
// over. The badge answers "is this person currently trending
// trustworthy": qualifying ratings aging out of the window can flip it
// back off with no new negative rating.
const BadgeWindow = 7 * 24 * time.Hour

// Badge thresholds: at least two 5-scores and one 4-score across all
// criteria of all ratings in the window.
const (
	badgeFivesRequired = 2
	badgeFoursRequired = 1
)

// Delta converts one rating submission's three 1-5 criterion scores into
// a reputation adjustment in [-3, 3]. Bucketing is deliberately coarse:
// below 3 counts -1, exactly 3 counts 0, above 3 counts +1, so a 5 and a
// 4 move the score equally.
func Delta(scores [3]int) (int, error) {
	delta := 0
	for _, s := range scores {
		if s < 1 || s > 5 {
			return 0, domain.ErrInvalidInput
		}
		switch {
		case s < 3:
			delta--
		case s > 3:
			delta++
		}
	}
	return delta, nil
}

// BadgeEligible recomputes the trusted badge from scratch against the
// ratings whose created_at falls within BadgeWindow of now. History
// outside the window and criterion labels are ignored; all three scores
// of each in-window rating are flattened into one multiset.
func BadgeEligible(history []domain.Rating, now time.Time) bool {
	cutoff := now.Add(-BadgeWindow)

	fives, fours := 0, 0
	for _, r := range history {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		for _, s := range r.Scores() {
			switch s {
			case 5:
				fives++
			case 4:
				fours++
			}
		}
	}
	return fives >= badgeFivesRequired && fours >= badgeFoursRequired
}

// ApplyRatingAndRecompute applies one rating to a freshly-read current
// score and re-evaluates the badge. history must already include the
// rating being applied (the caller persists the rating first, then
// recomputes). The new values are returned, not persisted.
func ApplyRatingAndRecompute(current int, scores [3]int, history []domain.Rating, now time.Time) (newScore int, badge bool, err error) {
	delta, err := Delta(scores)
	if err != nil {
		return 0, false, err
	}
	return current + delta, BadgeEligible(history, now), nil
}

// Decay reduces a positive reputation score by one point, floored at
// zero; scores at or below zero are left untouched. Invocation cadence
// is the scheduler's concern; the rule itself carries no bookkeeping.
func Decay(score int) int {
	if score <= 0 {
		return score
	}
	return score - 1
}
