package reputation

import "math/rand"

// Criteria is the fixed catalog of rating criteria. Rating prompts draw
// three of these without replacement; scoring itself treats criterion
// labels as opaque strings and never validates them against the catalog.
var Criteria = []string{
	"timeliness",
	"focus",
	"collaboration",
	"attitude",
	"listening",
	"reliability",
	"communication",
	"preparation",
}

// RandomCriteria returns n criteria drawn uniformly without replacement.
// n is clamped to the catalog size.
func RandomCriteria(n int) []string {
	if n > len(Criteria) {
		n = len(Criteria)
	}
	perm := rand.Perm(len(Criteria))
	picked := make([]string, 0, n)
	for _, i := range perm[:n] {
		picked = append(picked, Criteria[i])
	}
	return picked
}
