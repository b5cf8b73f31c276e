package dgc

import "context"

// Page is one page of a paginated listing.
type Page[T any] struct {
	Results    []T    `json:"results"`
	Total      int    `json:"total"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// HasMore reports whether more pages are available after this one.
func (p *Page[T]) HasMore() bool {
	if p.NextCursor != "" {
		return true
	}
	return p.Offset+len(p.Results) < p.Total
}

// FetchFunc fetches one page. Offset is the absolute position for offset
// pagination; cursor is the opaque continuation token for cursor
// pagination (empty on the first call).
type FetchFunc[T any] func(ctx context.Context, offset int, cursor string, limit int) (*Page[T], error)

// Paginator iterates over a paginated listing page by page or item by item
// without loading the full result set into memory.
type Paginator[T any] struct {
	fetch    FetchFunc[T]
	limit    int
	maxItems int // 0 means unbounded
	cursor   bool

	offset    int
	nextToken string
	fetched   int
	done      bool
}

// PaginatorOption configures a Paginator.
type PaginatorOption[T any] func(*Paginator[T])

// WithMaxItems caps the total number of items fetched across all pages.
func WithMaxItems[T any](n int) PaginatorOption[T] {
	return func(p *Paginator[T]) { p.maxItems = n }
}

// WithCursor switches the paginator to cursor-based continuation.
func WithCursor[T any]() PaginatorOption[T] {
	return func(p *Paginator[T]) { p.cursor = true }
}

// NewPaginator creates a Paginator that fetches pages of up to limit items.
func NewPaginator[T any](fetch FetchFunc[T], limit int, opts ...PaginatorOption[T]) *Paginator[T] {
	if limit <= 0 {
		limit = 100
	}
	p := &Paginator[T]{fetch: fetch, limit: limit}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Next fetches the next page. It returns ok=false once the listing is
// exhausted or the max-items cap has been reached.
func (p *Paginator[T]) Next(ctx context.Context) (page *Page[T], ok bool, err error) {
	if p.done {
		return nil, false, nil
	}
	if p.maxItems > 0 && p.fetched >= p.maxItems {
		p.done = true
		return nil, false, nil
	}

	limit := p.limit
	if p.maxItems > 0 && p.maxItems-p.fetched < limit {
		limit = p.maxItems - p.fetched
	}

	cursor := ""
	if p.cursor {
		cursor = p.nextToken
	}
	page, err = p.fetch(ctx, p.offset, cursor, limit)
	if err != nil {
		p.done = true
		return nil, false, err
	}
	if page == nil || len(page.Results) == 0 {
		p.done = true
		return nil, false, nil
	}

	p.fetched += len(page.Results)
	if p.cursor {
		p.nextToken = page.NextCursor
		if p.nextToken == "" {
			p.done = true
		}
	} else {
		p.offset += len(page.Results)
		if !page.HasMore() {
			p.done = true
		}
	}
	return page, true, nil
}

// Each invokes fn for every item across all pages, stopping on the first
// error from fn or the fetch function.
func (p *Paginator[T]) Each(ctx context.Context, fn func(T) error) error {
	for {
		page, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		for _, item := range page.Results {
			if err := fn(item); err != nil {
				return err
			}
		}
	}
}

// Collect gathers every item into a slice. Prefer Each for very large
// listings.
func (p *Paginator[T]) Collect(ctx context.Context) ([]T, error) {
	var all []T
	err := p.Each(ctx, func(item T) error {
		all = append(all, item)
		return nil
	})
	return all, err
}

// Fetched returns the number of items retrieved so far.
func (p *Paginator[T]) Fetched() int { return p.fetched }
