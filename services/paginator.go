package services

// DefaultPageSize is the number of posts on one feed page.
const DefaultPageSize = 10

// Page is the pagination metadata of one feed page.
type Page struct {
	Number      int   `json:"page"`
	Size        int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Offset is the number of rows preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Paginate resolves a requested page number against total rows.
// Numbers below 1 become 1 and numbers past the end clamp to the last page.
// An empty result set still has one (empty) page.
func Paginate(total int64, size, number int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return Page{
		Number:      number,
		Size:        size,
		Total:       total,
		TotalPages:  pages,
		HasNext:     number < pages,
		HasPrevious: number > 1,
	}
}
