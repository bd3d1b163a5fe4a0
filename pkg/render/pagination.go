package render

// maxPageWindow caps how many page links a pagination strip shows.
const maxPageWindow = 5

// PageWindow returns the page numbers a pagination strip should offer:
// at most five, centred on the current page and clamped to the valid
// range. With five or fewer total pages every page is listed.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - maxPageWindow/2
	if start < 1 {
		start = 1
	}
	end := start + maxPageWindow - 1
	if end > total {
		end = total
		if start = end - maxPageWindow + 1; start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for page := start; page <= end; page++ {
		window = append(window, page)
	}
	return window
}
