package collection

// Window describes one page over a filtered collection. The engine never
// clamps CurrentPage back into range when a filter shrinks the result set;
// that is the caller's contract.
type Window struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalItems  int `json:"total_items"`
}

// NewWindow normalizes the page inputs into a window over totalItems.
func NewWindow(currentPage, perPage, totalItems int) Window {
	if currentPage < 1 {
		currentPage = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}
	return Window{CurrentPage: currentPage, PerPage: perPage, TotalItems: totalItems}
}

// From is the 1-based index of the first item on the page, 0 when empty.
func (w Window) From() int {
	if w.TotalItems == 0 {
		return 0
	}
	return (w.CurrentPage-1)*w.PerPage + 1
}

// To is the 1-based index of the last item on the page.
func (w Window) To() int {
	if w.TotalItems == 0 {
		return 0
	}
	to := w.CurrentPage * w.PerPage
	if to > w.TotalItems {
		to = w.TotalItems
	}
	return to
}

// LastPage is the highest page that still holds items; an empty collection
// still reports one page so views always have somewhere to stand.
func (w Window) LastPage() int {
	if w.TotalItems == 0 {
		return 1
	}
	last := w.TotalItems / w.PerPage
	if w.TotalItems%w.PerPage != 0 {
		last++
	}
	return last
}

// Paginate slices the already filtered-and-sorted collection for the given
// page. Pages past the end yield an empty slice.
func Paginate[T any](items []T, currentPage, perPage int) []T {
	if currentPage < 1 {
		currentPage = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	start := (currentPage - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	page := make([]T, end-start)
	copy(page, items[start:end])
	return page
}
