package ranking

import (
	"math"
	"testing"

	"github.com/studybuddy/backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func userWith(id int, mutate func(*domain.User)) *domain.User {
	u := &domain.User{ID: id}
	if mutate != nil {
		mutate(u)
	}
	return u
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreNoTogglesIsNeutral(t *testing.T) {
	requester := userWith(1, nil)
	candidates := []*domain.User{
		userWith(2, nil),
		userWith(3, func(u *domain.User) {
			u.Gender = strPtr("female")
			u.Major = strPtr("CS")
			u.ClassesTaking = []string{"EECS281"}
			u.MBTI = strPtr("INTJ")
		}),
	}

	for _, c := range candidates {
		if got := Score(requester, c); got != NeutralScore {
			t.Errorf("Score(no toggles, user %d) = %v, want %v", c.ID, got, NeutralScore)
		}
	}
}

func TestScoreBinaryFactors(t *testing.T) {
	tests := []struct {
		name      string
		requester *domain.User
		candidate *domain.User
		want      float64
	}{
		{
			name: "major match alone scores 1.0",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByMajor = true
				u.Major = strPtr("CS")
			}),
			candidate: userWith(2, func(u *domain.User) { u.Major = strPtr("CS") }),
			want:      1.0,
		},
		{
			name: "major match is case-insensitive",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByMajor = true
				u.Major = strPtr("Computer Science")
			}),
			candidate: userWith(2, func(u *domain.User) { u.Major = strPtr("computer science") }),
			want:      1.0,
		},
		{
			name: "major mismatch scores 0",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByMajor = true
				u.Major = strPtr("CS")
			}),
			candidate: userWith(2, func(u *domain.User) { u.Major = strPtr("EE") }),
			want:      0.0,
		},
		{
			name: "missing candidate field still counts toward the denominator",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByMajor = true
				u.Major = strPtr("CS")
			}),
			candidate: userWith(2, nil),
			want:      0.0,
		},
		{
			name: "gender and year average over both weights",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByGender = true
				u.MatchByAcademicYear = true
				u.Gender = strPtr("male")
				u.AcademicYear = strPtr("junior")
			}),
			candidate: userWith(2, func(u *domain.User) {
				u.Gender = strPtr("male")
				u.AcademicYear = strPtr("senior")
			}),
			// gender hits 0.2, year misses 0.2: 0.2 / 0.4
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.requester, tt.candidate); !almostEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreClassOverlap(t *testing.T) {
	requester := userWith(1, func(u *domain.User) {
		u.MatchByClasses = true
		u.ClassesTaking = []string{"EECS281", "MATH214"}
	})
	candidate := userWith(2, func(u *domain.User) {
		u.ClassesTaking = []string{"EECS281"}
	})

	// Jaccard(taking) = 1/2, so the current-class half contributes
	// 0.2*0.5 = 0.1 out of the 0.3 class weight.
	want := 0.1 / 0.3
	if got := Score(requester, candidate); !almostEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScoreClassLabelsAreFolded(t *testing.T) {
	requester := userWith(1, func(u *domain.User) {
		u.MatchByClasses = true
		u.ClassesTaking = []string{" eecs281 "}
		u.ClassesTaken = []string{"MATH214"}
	})
	candidate := userWith(2, func(u *domain.User) {
		u.ClassesTaking = []string{"EECS281"}
		u.ClassesTaken = []string{"math214"}
	})

	if got := Score(requester, candidate); !almostEqual(got, 1.0) {
		t.Errorf("Score() = %v, want 1.0", got)
	}
}

func TestScoreStudyPreferencesTwoLevelNormalization(t *testing.T) {
	tests := []struct {
		name      string
		requester *domain.User
		candidate *domain.User
		want      float64
	}{
		{
			name: "single present sub-signal spans the whole group",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByStudyPreferences = true
				u.MBTI = strPtr("intj")
			}),
			candidate: userWith(2, func(u *domain.User) { u.MBTI = strPtr("INTJ") }),
			// Only MBTI is present on both sides: the group normalizes
			// over that one sub-signal, so a hit scores the full 0.3/0.3.
			want: 1.0,
		},
		{
			name: "absent sub-signals are skipped not penalized",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByStudyPreferences = true
				u.MBTI = strPtr("INTJ")
				u.StudySnack = strPtr("coffee")
			}),
			candidate: userWith(2, func(u *domain.User) {
				u.MBTI = strPtr("ENFP")
				// no study snack: that sub-signal drops out entirely
			}),
			want: 0.0,
		},
		{
			name: "text overlap averages with exact sub-signals",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByStudyPreferences = true
				u.MBTI = strPtr("INTJ")
				u.StudySnack = strPtr("trail mix")
			}),
			candidate: userWith(2, func(u *domain.User) {
				u.MBTI = strPtr("INTJ")
				u.StudySnack = strPtr("trail bars")
			}),
			// MBTI hit (1.0) and snack overlap 1/3 over two equal
			// sub-weights: (1 + 1/3) / 2.
			want: (1.0 + 1.0/3.0) / 2.0,
		},
		{
			name: "no present sub-signal leaves the group at zero but considered",
			requester: userWith(1, func(u *domain.User) {
				u.MatchByStudyPreferences = true
				u.MatchByMajor = true
				u.Major = strPtr("CS")
			}),
			candidate: userWith(2, func(u *domain.User) { u.Major = strPtr("CS") }),
			// Major hits 0.3, study prefs contribute 0 over weight 0.3.
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.requester, tt.candidate); !almostEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreStaysInRange(t *testing.T) {
	requester := userWith(1, func(u *domain.User) {
		u.MatchByGender = true
		u.MatchByMajor = true
		u.MatchByAcademicYear = true
		u.MatchByClasses = true
		u.MatchByStudyPreferences = true
		u.Gender = strPtr("male")
		u.Major = strPtr("CS")
		u.AcademicYear = strPtr("junior")
		u.ClassesTaking = []string{"EECS281", "EECS370"}
		u.ClassesTaken = []string{"EECS203"}
		u.MBTI = strPtr("INTJ")
		u.LearnBestWhen = strPtr("late at night with music")
	})

	candidates := []*domain.User{
		userWith(2, nil),
		userWith(3, func(u *domain.User) {
			u.Gender = strPtr("male")
			u.Major = strPtr("CS")
			u.AcademicYear = strPtr("junior")
			u.ClassesTaking = []string{"EECS281", "EECS370"}
			u.ClassesTaken = []string{"EECS203"}
			u.MBTI = strPtr("INTJ")
			u.LearnBestWhen = strPtr("late at night with music")
		}),
		userWith(4, func(u *domain.User) { u.Gender = strPtr("female") }),
	}

	for _, c := range candidates {
		got := Score(requester, c)
		if got < 0.0 || got > 1.0 {
			t.Errorf("Score(candidate %d) = %v, out of [0,1]", c.ID, got)
		}
	}

	// A fully-matching candidate should hit exactly 1.0.
	if got := Score(requester, candidates[1]); !almostEqual(got, 1.0) {
		t.Errorf("Score(identical candidate) = %v, want 1.0", got)
	}
}

func TestScoreEmptyPastClassesCapBelowOne(t *testing.T) {
	// With the classes toggle on, the past-classes half (weight 0.1)
	// still counts toward the denominator even when neither user lists
	// any taken classes, so a perfect match everywhere else tops out at
	// 1.2/1.3, not 1.0.
	build := func(id int) *domain.User {
		return userWith(id, func(u *domain.User) {
			u.Gender = strPtr("male")
			u.Major = strPtr("CS")
			u.AcademicYear = strPtr("junior")
			u.ClassesTaking = []string{"EECS281", "EECS370"}
			u.MBTI = strPtr("INTJ")
			u.LearnBestWhen = strPtr("late at night with music")
		})
	}
	requester := build(1)
	requester.MatchByGender = true
	requester.MatchByMajor = true
	requester.MatchByAcademicYear = true
	requester.MatchByClasses = true
	requester.MatchByStudyPreferences = true

	want := 1.2 / 1.3
	if got := Score(requester, build(2)); !almostEqual(got, want) {
		t.Errorf("Score(no past classes) = %v, want %v", got, want)
	}
}

func TestJaccardSymmetric(t *testing.T) {
	a := classSet([]string{"EECS281", "MATH214", "STATS250"})
	b := classSet([]string{"eecs281", "ENGLISH125"})

	if got, reverse := Jaccard(a, b), Jaccard(b, a); got != reverse {
		t.Errorf("Jaccard not symmetric: %v vs %v", got, reverse)
	}
	if got := Jaccard(a, b); !almostEqual(got, 0.25) {
		t.Errorf("Jaccard = %v, want 0.25", got)
	}
}

func TestJaccardEmptySets(t *testing.T) {
	if got := Jaccard(nil, nil); got != 0 {
		t.Errorf("Jaccard(empty, empty) = %v, want 0", got)
	}
	if got := Jaccard(classSet([]string{"EECS281"}), nil); got != 0 {
		t.Errorf("Jaccard(nonempty, empty) = %v, want 0", got)
	}
}

func TestTextSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "quiet library", "quiet library", 1.0},
		{"case folded", "Quiet Library", "quiet library", 1.0},
		{"partial overlap", "quiet library basement", "quiet coffee shop", 1.0 / 5.0},
		{"no overlap", "library", "dorm", 0.0},
		{"empty side", "", "library", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextSimilarity(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("TextSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRankOrderAndTieBreak(t *testing.T) {
	requester := userWith(1, func(u *domain.User) {
		u.MatchByMajor = true
		u.Major = strPtr("CS")
	})

	cs1 := userWith(30, func(u *domain.User) { u.Major = strPtr("CS") })
	cs2 := userWith(10, func(u *domain.User) { u.Major = strPtr("CS") })
	ee := userWith(20, func(u *domain.User) { u.Major = strPtr("EE") })

	ranked, err := Rank(requester, []*domain.User{cs1, ee, cs2})
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}

	wantIDs := []int{10, 30, 20}
	if len(ranked) != len(wantIDs) {
		t.Fatalf("Rank() returned %d users, want %d", len(ranked), len(wantIDs))
	}
	for i, want := range wantIDs {
		if ranked[i].User.ID != want {
			t.Errorf("ranked[%d].ID = %d, want %d", i, ranked[i].User.ID, want)
		}
	}
	if !almostEqual(ranked[0].Score, 1.0) || !almostEqual(ranked[2].Score, 0.0) {
		t.Errorf("scores = %v/%v, want 1.0 and 0.0", ranked[0].Score, ranked[2].Score)
	}
}

func TestRankDeterministicAcrossCalls(t *testing.T) {
	requester := userWith(1, func(u *domain.User) {
		u.MatchByClasses = true
		u.ClassesTaking = []string{"EECS281", "MATH214"}
	})

	pool := []*domain.User{
		userWith(5, func(u *domain.User) { u.ClassesTaking = []string{"EECS281"} }),
		userWith(3, func(u *domain.User) { u.ClassesTaking = []string{"MATH214"} }),
		userWith(9, nil),
		userWith(7, func(u *domain.User) { u.ClassesTaking = []string{"EECS281", "MATH214"} }),
	}

	first, err := Rank(requester, pool)
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Rank(requester, pool)
		if err != nil {
			t.Fatalf("Rank() error: %v", err)
		}
		for j := range first {
			if first[j].User.ID != again[j].User.ID {
				t.Fatalf("run %d: order diverged at %d: %d vs %d", i, j, first[j].User.ID, again[j].User.ID)
			}
		}
	}
}

func TestRankNilRequester(t *testing.T) {
	if _, err := Rank(nil, []*domain.User{userWith(2, nil)}); err != domain.ErrInvalidInput {
		t.Errorf("Rank(nil requester) error = %v, want ErrInvalidInput", err)
	}
}

func TestRankDoesNotMutateInputs(t *testing.T) {
	requester := userWith(1, func(u *domain.User) {
		u.MatchByClasses = true
		u.ClassesTaking = []string{"EECS281", " math214 "}
	})
	candidate := userWith(2, func(u *domain.User) {
		u.ClassesTaking = []string{"MATH214"}
	})

	if _, err := Rank(requester, []*domain.User{candidate}); err != nil {
		t.Fatalf("Rank() error: %v", err)
	}

	// Folding for the Jaccard comparison must not leak back into the
	// stored labels.
	if requester.ClassesTaking[1] != " math214 " {
		t.Errorf("Rank mutated requester class labels: %v", requester.ClassesTaking)
	}
	if candidate.ClassesTaking[0] != "MATH214" {
		t.Errorf("Rank mutated candidate class labels: %v", candidate.ClassesTaking)
	}
}
