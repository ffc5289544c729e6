package view

import "github.com/dashblogger/admin-console/internal/core/domain"

const DefaultPageSize = 10

// Page is one window of the filtered view. From and To are the 1-based
// positions of the first and last item shown, both zero when empty.
type Page struct {
	Items      []*domain.User `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
	From       int            `json:"from"`
	To         int            `json:"to"`
	// Links lists the page numbers to render, with 0 standing for a gap.
	Links []int `json:"links"`
}

// TotalPages returns ceil(n/size).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (n + size - 1) / size
}

// Clamp bounds page to [1, max(1, TotalPages(n, size))].
func Clamp(page, n, size int) int {
	last := max(1, TotalPages(n, size))
	return min(max(page, 1), last)
}

// Paginate slices the window for page out of items, clamping page first.
func Paginate(items []*domain.User, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := len(items)
	page = Clamp(page, n, size)
	total := TotalPages(n, size)

	start := min((page-1)*size, n)
	end := min(start+size, n)

	p := Page{
		Items:      make([]*domain.User, 0, end-start),
		Page:       page,
		PageSize:   size,
		TotalItems: n,
		TotalPages: total,
		Links:      pageLinks(page, total),
	}
	p.Items = append(p.Items, items[start:end]...)
	if end > start {
		p.From, p.To = start+1, end
	}
	return p
}

// pageLinks lists the first and last page, the current page with two
// neighbours on each side, and a 0 where the sequence skips.
func pageLinks(current, total int) []int {
	var links []int
	for i := 1; i <= total; i++ {
		switch {
		case i == 1 || i == total || (i >= current-2 && i <= current+2):
			links = append(links, i)
		case i == current-3 || i == current+3:
			links = append(links, 0)
		}
	}
	return links
}
