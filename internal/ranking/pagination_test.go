package ranking

import (
	"testing"

	"github.com/studybuddy/backend/internal/domain"
)

func rankedFixture(ids ...int) []ScoredUser {
	out := make([]ScoredUser, 0, len(ids))
	for i, id := range ids {
		out = append(out, ScoredUser{
			User:  &domain.User{ID: id},
			Score: 1.0 - float64(i)*0.1,
		})
	}
	return out
}

func pageIDs(page []ScoredUser) []int {
	ids := make([]int, 0, len(page))
	for _, su := range page {
		ids = append(ids, su.User.ID)
	}
	return ids
}

func TestPageAfter(t *testing.T) {
	ranked := rankedFixture(7, 3, 9, 1, 5)

	tests := []struct {
		name       string
		cursor     *int
		limit      int
		wantIDs    []int
		wantNext   *int
		wantMore   bool
	}{
		{
			name:     "nil cursor starts from the top",
			cursor:   nil,
			limit:    2,
			wantIDs:  []int{7, 3},
			wantNext: intPtr(3),
			wantMore: true,
		},
		{
			name:     "cursor resumes after its position",
			cursor:   intPtr(3),
			limit:    2,
			wantIDs:  []int{9, 1},
			wantNext: intPtr(1),
			wantMore: true,
		},
		{
			name:     "final page reports no more",
			cursor:   intPtr(1),
			limit:    2,
			wantIDs:  []int{5},
			wantNext: intPtr(5),
			wantMore: false,
		},
		{
			name:     "cursor past the end yields empty page",
			cursor:   intPtr(5),
			limit:    2,
			wantIDs:  []int{},
			wantNext: nil,
			wantMore: false,
		},
		{
			name:     "unknown cursor restarts from the top",
			cursor:   intPtr(999),
			limit:    3,
			wantIDs:  []int{7, 3, 9},
			wantNext: intPtr(9),
			wantMore: true,
		},
		{
			name:     "non-positive limit is clamped to one",
			cursor:   nil,
			limit:    0,
			wantIDs:  []int{7},
			wantNext: intPtr(7),
			wantMore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, next, more := PageAfter(ranked, tt.cursor, tt.limit)

			got := pageIDs(page)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("page ids = %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Fatalf("page ids = %v, want %v", got, tt.wantIDs)
				}
			}

			switch {
			case tt.wantNext == nil && next != nil:
				t.Errorf("nextCursor = %v, want nil", *next)
			case tt.wantNext != nil && next == nil:
				t.Errorf("nextCursor = nil, want %v", *tt.wantNext)
			case tt.wantNext != nil && *next != *tt.wantNext:
				t.Errorf("nextCursor = %v, want %v", *next, *tt.wantNext)
			}

			if more != tt.wantMore {
				t.Errorf("hasMore = %v, want %v", more, tt.wantMore)
			}
		})
	}
}

func TestPageAfterWalksWholeList(t *testing.T) {
	ranked := rankedFixture(4, 8, 2, 6, 10, 12, 14)

	var cursor *int
	var seen []int
	for {
		page, next, more := PageAfter(ranked, cursor, 3)
		seen = append(seen, pageIDs(page)...)
		if !more {
			break
		}
		cursor = next
	}

	if len(seen) != len(ranked) {
		t.Fatalf("walked %d users, want %d", len(seen), len(ranked))
	}
	for i, su := range ranked {
		if seen[i] != su.User.ID {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], su.User.ID)
		}
	}
}

func intPtr(v int) *int { return &v }
