// Package pagination holds the 1-based page arithmetic shared by the
// sitemap paginator.
package pagination

// CalculateOffset returns the index of the first item of page.
//
//   - Page 1, Limit 20 -> Offset 0
//   - Page 3, Limit 10 -> Offset 20
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages returns ceil(total / limit), and 1 when total is 0:
// an empty list still has one, empty, page.
func CalculateTotalPages(total int64, limit int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Bounds returns the half-open item range [start, end) of page over total
// items. ok is false when page is outside 1..CalculateTotalPages.
func Bounds(page, limit, total int) (start, end int, ok bool) {
	if limit < 1 || page < 1 || page > CalculateTotalPages(int64(total), limit) {
		return 0, 0, false
	}
	start = CalculateOffset(page, limit)
	return start, min(start+limit, total), true
}
