package query

import "github.com/fixora/backoffice/internal/domain"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageSizes are the page sizes offered to the client
var PageSizes = []int{10, 25, 50, 100}

// Page represents one slice of a filtered and sorted record sequence
type Page struct {
	Items      []domain.LogRecord `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalItems int                `json:"total_items"`
	TotalPages int                `json:"total_pages"`
}

// NormalizePage replaces a page below 1 with 1 and a size below 1 with
// DefaultPageSize. Larger sizes are left alone.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

// ClampPageSize bounds a client-supplied page size to [1, MaxPageSize]
func ClampPageSize(size int) int {
	_, size = NormalizePage(1, size)
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return size
}

// TotalPages returns ceil(total/size)
func TotalPages(total, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate returns records[(page-1)*size : page*size], clamped to the
// sequence. A page past the end yields no items.
func Paginate(records []domain.LogRecord, page, size int) Page {
	page, size = NormalizePage(page, size)
	total := len(records)

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]domain.LogRecord, end-start)
	copy(items, records[start:end])

	return Page{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: TotalPages(total, size),
	}
}
