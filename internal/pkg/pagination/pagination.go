// Package pagination computes the compact list of page buttons shown under
// paginated lists: boundary pages at both ends, the current page with its
// siblings, and ellipses where pages are left out.
package pagination

type ItemType string

const (
	TypePage          ItemType = "page"
	TypeStartEllipsis ItemType = "start-ellipsis"
	TypeEndEllipsis   ItemType = "end-ellipsis"
	TypePrevious      ItemType = "previous"
	TypeNext          ItemType = "next"
)

type Item struct {
	Type     ItemType
	Page     int
	Selected bool
	Disabled bool
}

// IsEllipsis reports whether the item stands for a run of hidden pages.
func (i Item) IsEllipsis() bool {
	return i.Type == TypeStartEllipsis || i.Type == TypeEndEllipsis
}

type Params struct {
	Page          int
	Total         int
	PageSize      int
	SiblingCount  int
	BoundaryCount int
}

type Page struct {
	Items      []Item
	Current    int
	TotalPages int
	Total      int
}

// HasPages is false when everything fits on a single page.
func (p Page) HasPages() bool {
	return p.TotalPages > 1
}

func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}

	return (total + size - 1) / size
}

// Offset returns the number of rows to skip for a 1-based page.
func Offset(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}

	return (page - 1) * size
}

// ClampPage keeps page inside [1, max(totalPages, 1)].
func ClampPage(page, totalPages int) int {
	return max(min(page, totalPages), 1)
}

func New(p Params) Page {
	count := TotalPages(p.Total, p.PageSize)
	current := ClampPage(p.Page, count)

	return Page{
		Items:      Range(p),
		Current:    current,
		TotalPages: count,
		Total:      p.Total,
	}
}

func Range(p Params) []Item {
	count := TotalPages(p.Total, p.PageSize)
	page := ClampPage(p.Page, count)
	siblings := max(p.SiblingCount, 0)
	boundary := max(p.BoundaryCount, 0)

	startPages := seq(1, min(boundary, count))
	endPages := seq(max(count-boundary+1, boundary+1), count)

	siblingsStart := max(
		min(page-siblings, count-boundary-siblings*2-1),
		boundary+2,
	)

	siblingsLimit := count - 1
	if len(endPages) > 0 {
		siblingsLimit = endPages[0] - 2
	}

	siblingsEnd := min(
		max(page+siblings, boundary+siblings*2+2),
		siblingsLimit,
	)

	items := make([]Item, 0, len(startPages)+len(endPages)+siblings*2+5) //nolint:gomnd

	items = append(items, Item{Type: TypePrevious, Page: page - 1, Disabled: page <= 1})

	for _, n := range startPages {
		items = append(items, pageItem(n, page))
	}

	switch {
	case siblingsStart > boundary+2:
		items = append(items, Item{Type: TypeStartEllipsis})
	case boundary+1 < count-boundary:
		items = append(items, pageItem(boundary+1, page))
	}

	for _, n := range seq(siblingsStart, siblingsEnd) {
		items = append(items, pageItem(n, page))
	}

	switch {
	case siblingsEnd < count-boundary-1:
		items = append(items, Item{Type: TypeEndEllipsis})
	case count-boundary > boundary:
		items = append(items, pageItem(count-boundary, page))
	}

	for _, n := range endPages {
		items = append(items, pageItem(n, page))
	}

	items = append(items, Item{Type: TypeNext, Page: page + 1, Disabled: page >= count})

	return items
}

func pageItem(n, current int) Item {
	return Item{Type: TypePage, Page: n, Selected: n == current}
}

// seq returns the inclusive range [start, end], empty when end < start.
func seq(start, end int) []int {
	if end < start {
		return nil
	}

	s := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		s = append(s, i)
	}

	return s
}
