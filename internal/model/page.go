package model

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func NewPage(number, size int) Page {
	if number <= 0 {
		number = 1
	}
	switch {
	case size > MaxPageSize:
		size = MaxPageSize
	case size <= 0:
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type Paged[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

func NewPaged[T any](items []T, total int64, page Page) Paged[T] {
	totalPages := 0
	if total > 0 && page.Size > 0 {
		totalPages = int((total + int64(page.Size) - 1) / int64(page.Size))
	}
	if items == nil {
		items = []T{}
	}
	return Paged[T]{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		Size:       page.Size,
		TotalPages: totalPages,
	}
}

func (p Paged[T]) HasPrev() bool { return p.Page > 1 }

func (p Paged[T]) HasNext() bool { return p.Page < p.TotalPages }

func (p Paged[T]) PrevPage() int { return p.Page - 1 }

func (p Paged[T]) NextPage() int { return p.Page + 1 }

// Window returns up to width page numbers centred on the current page.
func (p Paged[T]) Window(width int) []int {
	if p.TotalPages == 0 || width <= 0 {
		return nil
	}
	start := p.Page - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - width + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
