// Package ranking computes profile similarity for the list-view matching
// flow. Scoring is a pure function of (requester, candidate): it reads
// the requester's preference toggles to decide which factors count,
// soft-scores each enabled factor, and normalizes over the weight that
// was actually considered. Hard eligibility filtering happens upstream
// in the query layer; this package only orders an already-eligible pool.
package ranking

import (
	"sort"
	"strings"

	"github.com/studybuddy/backend/internal/domain"
)

// Factor weights. Gender/major/year are binary matches, classes split
// into a current and a past half, and the five study-preference
// sub-signals share one group weight.
const (
	weightGender        = 0.2
	weightMajor         = 0.3
	weightAcademicYear  = 0.2
	weightClassesTaking = 0.2
	weightClassesTaken  = 0.1
	weightStudyPrefs    = 0.3
)

// NeutralScore is returned for every candidate when the requester has no
// toggles enabled: an empty preference set means "no ranking preference",
// not "no similarity".
const NeutralScore = 0.5

// ScoredUser pairs a candidate with its similarity score.
type ScoredUser struct {
	User  *domain.User
	Score float64
}

// contribution pairs a factor's weight with the achieved fraction of
// that weight, in [0,1].
type contribution struct {
	weight   float64
	achieved float64
}

// weightedAverage folds contributions into achieved/considered. The
// second return is false when nothing was considered. Used at both
// normalization levels so the nesting in the study-preferences factor
// stays auditable.
func weightedAverage(parts []contribution) (float64, bool) {
	var considered, achieved float64
	for _, p := range parts {
		considered += p.weight
		achieved += p.weight * p.achieved
	}
	if considered == 0 {
		return 0, false
	}
	return achieved / considered, true
}

// Score computes the similarity of candidate to requester in [0,1].
// Only factors whose toggle the requester enabled contribute; missing
// optional fields degrade to a zero contribution rather than erroring.
func Score(requester, candidate *domain.User) float64 {
	var parts []contribution

	if requester.MatchByGender {
		parts = append(parts, contribution{weightGender, equalFold(requester.Gender, candidate.Gender)})
	}
	if requester.MatchByMajor {
		parts = append(parts, contribution{weightMajor, equalFold(requester.Major, candidate.Major)})
	}
	if requester.MatchByAcademicYear {
		parts = append(parts, contribution{weightAcademicYear, equalFold(requester.AcademicYear, candidate.AcademicYear)})
	}
	if requester.MatchByClasses {
		parts = append(parts,
			contribution{weightClassesTaking, classOverlap(requester.ClassesTaking, candidate.ClassesTaking)},
			contribution{weightClassesTaken, classOverlap(requester.ClassesTaken, candidate.ClassesTaken)},
		)
	}
	if requester.MatchByStudyPreferences {
		parts = append(parts, contribution{weightStudyPrefs, studyPrefScore(requester, candidate)})
	}

	score, ok := weightedAverage(parts)
	if !ok {
		return NeutralScore
	}
	return score
}

// studyPrefScore computes the inner achieved fraction for the
// study-preferences group. Sub-signals are equally weighted and a
// sub-signal missing on either side is skipped entirely: it drops out of
// the group denominator instead of counting as a miss.
func studyPrefScore(requester, candidate *domain.User) float64 {
	var parts []contribution

	if present(requester.MBTI) && present(candidate.MBTI) {
		parts = append(parts, contribution{1, exactFold(*requester.MBTI, *candidate.MBTI)})
	}
	if present(requester.YapToStudyRatio) && present(candidate.YapToStudyRatio) {
		parts = append(parts, contribution{1, exactFold(*requester.YapToStudyRatio, *candidate.YapToStudyRatio)})
	}
	for _, pair := range [][2]*string{
		{requester.LearnBestWhen, candidate.LearnBestWhen},
		{requester.StudySnack, candidate.StudySnack},
		{requester.FavoriteStudySpot, candidate.FavoriteStudySpot},
	} {
		if present(pair[0]) && present(pair[1]) {
			parts = append(parts, contribution{1, TextSimilarity(*pair[0], *pair[1])})
		}
	}

	score, ok := weightedAverage(parts)
	if !ok {
		return 0
	}
	return score
}

// Rank scores every candidate against the requester and returns them
// sorted by score descending, ties broken by ascending user id so that
// repeated calls over the same pool paginate identically. Inputs are
// never mutated. A nil requester is the one hard precondition.
func Rank(requester *domain.User, candidates []*domain.User) ([]ScoredUser, error) {
	if requester == nil {
		return nil, domain.ErrInvalidInput
	}

	ranked := make([]ScoredUser, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		ranked = append(ranked, ScoredUser{User: c, Score: Score(requester, c)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].User.ID < ranked[j].User.ID
	})

	return ranked, nil
}

// Jaccard returns |a∩b| / |a∪b|. Empty-on-either-side returns 0: two
// empty sets are treated as "no contribution", not a perfect match.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// TextSimilarity is token-overlap similarity: lowercase, split on
// whitespace, Jaccard over the two token sets.
func TextSimilarity(a, b string) float64 {
	return Jaccard(tokenSet(a), tokenSet(b))
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		set[tok] = struct{}{}
	}
	return set
}

// classOverlap folds free-text course labels (case-folded, trimmed,
// blanks dropped) and compares them with Jaccard.
func classOverlap(a, b []string) float64 {
	return Jaccard(classSet(a), classSet(b))
}

func classSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			set[l] = struct{}{}
		}
	}
	return set
}

func present(s *string) bool {
	return s != nil && *s != ""
}

// equalFold scores a binary match between two optional categorical
// fields: 1 when both present and equal ignoring case, otherwise 0.
func equalFold(a, b *string) float64 {
	if !present(a) || !present(b) {
		return 0
	}
	return exactFold(*a, *b)
}

func exactFold(a, b string) float64 {
	if strings.EqualFold(a, b) {
		return 1
	}
	return 0
}
