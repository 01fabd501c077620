package ranking

// PageAfter resumes pagination inside an already-ranked list. The cursor
// is the id of the last user the client saw, interpreted as a position
// in the sorted order rather than a primary-key range filter, since the
// sort order is similarity, not id order. A nil cursor, or a cursor id that is
// no longer in the ranked snapshot (the pool changed between requests),
// starts from the top rather than failing.
//
// nextCursor is the id of the last user in the returned page, or nil for
// an empty page. Scanning for the cursor is O(n) per page, which is fine
// at the bounded pool sizes the candidate query returns.
func PageAfter(ranked []ScoredUser, cursor *int, limit int) (page []ScoredUser, nextCursor *int, hasMore bool) {
	if limit < 1 {
		limit = 1
	}

	start := 0
	if cursor != nil {
		for i, su := range ranked {
			if su.User.ID == *cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}

	page = ranked[start:end]
	if len(page) > 0 {
		last := page[len(page)-1].User.ID
		nextCursor = &last
	}
	return page, nextCursor, end < len(ranked)
}
