package reputation

import (
	"testing"
	"time"

	"github.com/studybuddy/backend/internal/domain"
)

func ratingAt(created time.Time, scores [3]int) domain.Rating {
	return domain.Rating{
		Criterion1: "timeliness", Rating1: scores[0],
		Criterion2: "focus", Rating2: scores[1],
		Criterion3: "attitude", Rating3: scores[2],
		CreatedAt: created,
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name   string
		scores [3]int
		want   int
	}{
		{"all fives", [3]int{5, 5, 5}, 3},
		{"all threes", [3]int{3, 3, 3}, 0},
		{"all ones", [3]int{1, 1, 1}, -3},
		{"mixed cancels out", [3]int{5, 3, 1}, 0},
		{"four counts same as five", [3]int{4, 3, 3}, 1},
		{"two counts same as one", [3]int{2, 3, 3}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Delta(tt.scores)
			if err != nil {
				t.Fatalf("Delta(%v) error: %v", tt.scores, err)
			}
			if got != tt.want {
				t.Errorf("Delta(%v) = %d, want %d", tt.scores, got, tt.want)
			}
		})
	}
}

func TestDeltaRejectsOutOfRangeScores(t *testing.T) {
	for _, scores := range [][3]int{
		{0, 3, 3},
		{3, 6, 3},
		{3, 3, -1},
	} {
		if _, err := Delta(scores); err != domain.ErrInvalidInput {
			t.Errorf("Delta(%v) error = %v, want ErrInvalidInput", scores, err)
		}
	}
}

func TestBadgeEligible(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		history []domain.Rating
		want    bool
	}{
		{
			name: "two fives and a four inside the window",
			history: []domain.Rating{
				ratingAt(now.Add(-24*time.Hour), [3]int{5, 5, 4}),
			},
			want: true,
		},
		{
			name: "counts accumulate across ratings",
			history: []domain.Rating{
				ratingAt(now.Add(-48*time.Hour), [3]int{5, 3, 3}),
				ratingAt(now.Add(-24*time.Hour), [3]int{5, 4, 2}),
			},
			want: true,
		},
		{
			name: "same counts aged out of the window",
			history: []domain.Rating{
				ratingAt(now.Add(-8*24*time.Hour), [3]int{5, 5, 4}),
			},
			want: false,
		},
		{
			name: "two fives but no four",
			history: []domain.Rating{
				ratingAt(now.Add(-24*time.Hour), [3]int{5, 5, 3}),
			},
			want: false,
		},
		{
			name: "one five and many fours",
			history: []domain.Rating{
				ratingAt(now.Add(-24*time.Hour), [3]int{5, 4, 4}),
				ratingAt(now.Add(-36*time.Hour), [3]int{4, 4, 4}),
			},
			want: false,
		},
		{
			name:    "empty history",
			history: nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BadgeEligible(tt.history, now); got != tt.want {
				t.Errorf("BadgeEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBadgeFlipsOffAsRatingsAge(t *testing.T) {
	earned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history := []domain.Rating{
		ratingAt(earned, [3]int{5, 5, 4}),
	}

	if !BadgeEligible(history, earned.Add(time.Hour)) {
		t.Fatal("badge should hold right after the qualifying rating")
	}

	// Recomputing later with no new ratings drops the badge once the
	// qualifying rating leaves the trailing window. This freshness
	// behavior is deliberate.
	if BadgeEligible(history, earned.Add(BadgeWindow+time.Hour)) {
		t.Error("badge should decay once qualifying ratings age out")
	}
}

func TestApplyRatingAndRecompute(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	history := []domain.Rating{
		ratingAt(now.Add(-24*time.Hour), [3]int{5, 4, 3}),
		ratingAt(now, [3]int{5, 5, 5}),
	}

	score, badge, err := ApplyRatingAndRecompute(2, [3]int{5, 5, 5}, history, now)
	if err != nil {
		t.Fatalf("ApplyRatingAndRecompute() error: %v", err)
	}
	if score != 5 {
		t.Errorf("newScore = %d, want 5", score)
	}
	if !badge {
		t.Error("badge = false, want true (three fives and a four in window)")
	}

	if _, _, err := ApplyRatingAndRecompute(0, [3]int{9, 5, 5}, history, now); err != domain.ErrInvalidInput {
		t.Errorf("out-of-range score error = %v, want ErrInvalidInput", err)
	}
}

func TestDecay(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{5, 4},
		{1, 0},
		{0, 0},
		{-2, -2},
	}

	for _, tt := range tests {
		if got := Decay(tt.score); got != tt.want {
			t.Errorf("Decay(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestRandomCriteria(t *testing.T) {
	got := RandomCriteria(3)
	if len(got) != 3 {
		t.Fatalf("RandomCriteria(3) returned %d criteria", len(got))
	}

	catalog := make(map[string]bool, len(Criteria))
	for _, c := range Criteria {
		catalog[c] = true
	}

	seen := make(map[string]bool)
	for _, c := range got {
		if !catalog[c] {
			t.Errorf("criterion %q not in catalog", c)
		}
		if seen[c] {
			t.Errorf("criterion %q drawn twice", c)
		}
		seen[c] = true
	}

	if got := RandomCriteria(100); len(got) != len(Criteria) {
		t.Errorf("RandomCriteria(100) returned %d, want clamp to %d", len(got), len(Criteria))
	}
}
