package domain

// PageSizeAll is the sentinel page size meaning "return the entire filtered
// set, ignore the page number". It maps to the "All" option in the UI.
const PageSizeAll = 0

// Ellipsis is the marker PageNumbers emits for a collapsed run of pages.
const Ellipsis = -1

// PaginationParams holds offset-based pagination parameters for list queries.
// PageSize is a positive integer or PageSizeAll.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Unbounded reports whether the params request the whole filtered set.
func (p PaginationParams) Unbounded() bool {
	return p.PageSize == PageSizeAll
}

// Offset returns the row offset for the current page (0-based).
// Pages below 1 are treated as page 1.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.Unbounded() {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages computes the page count for a filtered set of total rows, with
// a floor of one page: an empty result is "page 1 of 1", never "page 1 of 0".
func (p PaginationParams) TotalPages(total int) int {
	if p.Unbounded() || total <= 0 {
		return 1
	}
	pages := (total + p.PageSize - 1) / p.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageNumbers returns the page markers to render for a pager: either every
// page when totalPages fits in window, or the first and last page with a
// contiguous block around current and each gap collapsed into a single
// Ellipsis. window is the threshold at which collapsing starts; widths
// differ per caller (desktop vs mobile), so it is a parameter.
func PageNumbers(current, totalPages, window int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	if window < 5 {
		window = 5
	}
	if totalPages <= window {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	pages := []int{1}
	if current > 3 {
		pages = append(pages, Ellipsis)
	}
	for i := max(2, current-1); i <= min(totalPages-1, current+1); i++ {
		pages = append(pages, i)
	}
	if current < totalPages-2 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, totalPages)
}
