package aggregate

// Page sizes used by the directory screens.
const (
	ApartmentGroupsPerPage = 3
	LockersPerPage         = 5
)

// Page is one window of a paginated list. Number is 1-indexed.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Number     int  `json:"page"`
	Size       int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// TotalPages is ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the requested page. Out-of-range requests clamp to the
// nearest existing page instead of wrapping.
func Paginate[T any](items []T, size, page int) Page[T] {
	p := NewPaginator(len(items), size)
	p.Go(page)
	return Slice(items, p)
}

// Slice cuts the current page of p out of items.
func Slice[T any](items []T, p *Paginator) Page[T] {
	start, end := p.Bounds()
	return Page[T]{
		Items:      items[start:end],
		Number:     p.Current(),
		Size:       p.size,
		TotalItems: p.total,
		TotalPages: p.Pages(),
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
	}
}

// Paginator holds the current page of a list. Moving past either end clamps.
type Paginator struct {
	total   int
	size    int
	current int
}

func NewPaginator(total, size int) *Paginator {
	if size <= 0 {
		size = 1
	}
	return &Paginator{total: total, size: size, current: 1}
}

func (p *Paginator) Current() int { return p.current }

func (p *Paginator) Pages() int { return TotalPages(p.total, p.size) }

func (p *Paginator) HasPrev() bool { return p.current > 1 }

func (p *Paginator) HasNext() bool { return p.current < p.Pages() }

// Go jumps to page n, clamped to [1, Pages()].
func (p *Paginator) Go(n int) {
	p.current = min(max(n, 1), p.Pages())
}

// Bounds returns the half-open item range of the current page.
func (p *Paginator) Bounds() (int, int) {
	start := min((p.current-1)*p.size, p.total)
	end := min(start+p.size, p.total)
	return start, end
}
