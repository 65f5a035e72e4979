// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

// Pager tracks the fetch-more position of one search session: the last page
// requested and whether another page may still hold new results. "Load more"
// always requests the next page and appends; there is no jump-to-page.
//
// Pager is not safe for concurrent use; the Orchestrator guards it.
type Pager struct {
	page    int
	hasMore bool
}

// NewPager returns a pager at page 1 with more pages available.
func NewPager() *Pager {
	p := &Pager{}
	p.Reset()
	return p
}

// Reset starts a new session: page 1, more available.
func (p *Pager) Reset() {
	p.page = 1
	p.hasMore = true
}

// Page returns the last page requested.
func (p *Pager) Page() int { return p.page }

// HasMore reports whether another page may be requested.
func (p *Pager) HasMore() bool { return p.hasMore }

// Advance moves to the next page and returns it. It returns false and leaves
// the page unchanged once the session is exhausted.
func (p *Pager) Advance() (int, bool) {
	if !p.hasMore {
		return p.page, false
	}
	p.page++
	return p.page, true
}

// Rewind undoes an Advance whose fetch failed, so a retry requests the same
// page again.
func (p *Pager) Rewind() {
	if p.page > 1 {
		p.page--
	}
}

// Record notes how many new results the last page contributed after
// normalization and filtering. Zero exhausts the session until Reset.
func (p *Pager) Record(count int) {
	if count == 0 {
		p.hasMore = false
	}
}

// Exhaust marks the session as having no further pages. Used for result
// sets that are not paginated, such as person credits.
func (p *Pager) Exhaust() {
	p.hasMore = false
}
