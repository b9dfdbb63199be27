package domain

// DefaultPageSize matches the history view's fixed rows-per-page.
const DefaultPageSize = 5

// NormalizePage clamps a 0-based page back to 0 when it would fall past the
// end of the list: after a delete shrank the list, or after a filter change.
func NormalizePage(page, pageSize, total int) int {
	if page < 0 {
		return 0
	}
	if pageSize <= 0 || page*pageSize >= total {
		return 0
	}
	return page
}

// PageWindow returns the [start, end) slice bounds for a 0-based page over a
// list of total items. The window is empty when page*pageSize >= total.
func PageWindow(page, pageSize, total int) (start, end int) {
	if page < 0 || pageSize <= 0 {
		return 0, 0
	}
	start = page * pageSize
	if start >= total {
		return total, total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
