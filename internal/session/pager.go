package session

// PageSize is the fixed number of rows shown per page.
const PageSize = 10

// Pager tracks the current page over a collection whose length changes
// out from under it after refreshes. The page is clamped into the valid
// range whenever the length shrinks, so the view never points past the
// last page.
type Pager struct {
	page int
	size int
}

// NewPager starts on page 1.
func NewPager() *Pager {
	return &Pager{page: 1, size: PageSize}
}

// Page returns the current 1-based page.
func (p *Pager) Page() int { return p.page }

// TotalPages returns the page count for n items, never less than 1.
func (p *Pager) TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + p.size - 1) / p.size
}

// Clamp pulls the current page back into [1, TotalPages(n)].
func (p *Pager) Clamp(n int) {
	if max := p.TotalPages(n); p.page > max {
		p.page = max
	}
	if p.page < 1 {
		p.page = 1
	}
}

// Next advances one page if one exists.
func (p *Pager) Next(n int) {
	if p.page < p.TotalPages(n) {
		p.page++
	}
}

// Prev goes back one page if not already on the first.
func (p *Pager) Prev() {
	if p.page > 1 {
		p.page--
	}
}

// Goto jumps to a page, clamped into the valid range for n items.
func (p *Pager) Goto(page, n int) {
	p.page = page
	p.Clamp(n)
}

// Slice returns the window of items visible on the current page. The
// page is clamped first, so a shrunk collection still yields a valid
// window.
func Slice[T any](p *Pager, items []T) []T {
	p.Clamp(len(items))
	start := (p.page - 1) * p.size
	if start >= len(items) {
		return nil
	}
	end := start + p.size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
