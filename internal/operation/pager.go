package operation

import (
	"context"
	"net/url"
	"sync"

	"github.com/Felixhuangsiling/front-pfee/internal/model"
)

// PageFunc fetches the page selected by query.
type PageFunc[T any] func(ctx context.Context, query url.Values) (T, error)

// Pager runs a paginated list query, a change of page or size refetches
// unless a fetch is already in flight.
//
// A Pager starts out loading, until the first fetch settles.
type Pager[T any] struct {
	*Outcome

	op    Op
	fetch PageFunc[T]

	mu         sync.Mutex
	pagination model.Pagination
	filter     model.Filter
	data       T
	mounted    bool
}

func NewPager[T any](op Op, p model.Pagination, f model.Filter, fetch PageFunc[T]) *Pager[T] {
	return &Pager[T]{
		Outcome:    NewOutcome(true),
		op:         op,
		fetch:      fetch,
		pagination: p,
		filter:     f,
	}
}

// Fetch runs the query for the current page selection and filter.
func (p *Pager[T]) Fetch(ctx context.Context) Result[T] {
	p.Begin()

	return p.run(ctx)
}

// Mount runs the first fetch, it returns false when the pager was already mounted.
func (p *Pager[T]) Mount(ctx context.Context) (Result[T], bool) {
	p.mu.Lock()
	mounted := p.mounted
	p.mounted = true
	p.mu.Unlock()

	if mounted {
		return Result[T]{}, false
	}

	return p.Fetch(ctx), true
}

// SetPage selects page, see SetPagination.
func (p *Pager[T]) SetPage(ctx context.Context, page int) (Result[T], bool) {
	return p.SetPagination(ctx, model.Pagination{Page: page, Size: p.Pagination().Size})
}

// SetSize selects the page size, see SetPagination.
func (p *Pager[T]) SetSize(ctx context.Context, size int) (Result[T], bool) {
	return p.SetPagination(ctx, model.Pagination{Page: p.Pagination().Page, Size: size})
}

// SetPagination changes the page selection and refetches when it differs from the current one.
//
// No fetch is issued while another one is in flight, the new selection is kept and used by the next fetch.
// The returned bool is true when a fetch was issued.
func (p *Pager[T]) SetPagination(ctx context.Context, pagination model.Pagination) (Result[T], bool) {
	p.mu.Lock()
	changed := p.pagination != pagination
	p.pagination = pagination
	p.mu.Unlock()

	if !changed || !p.TryBegin() {
		if p.op.Logger != nil {
			p.op.Logger.WithField("operation", p.op.Name).Trace("page selection unchanged or fetch in flight")
		}

		return Result[T]{}, false
	}

	return p.run(ctx), true
}

// SetFilter replaces the filter, it applies from the next fetch.
func (p *Pager[T]) SetFilter(f model.Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filter = f
}

func (p *Pager[T]) Pagination() model.Pagination {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.pagination
}

// Data returns the last page fetched successfully.
func (p *Pager[T]) Data() T {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.data
}

func (p *Pager[T]) query() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()

	return model.Query(p.pagination, p.filter)
}

func (p *Pager[T]) run(ctx context.Context) Result[T] {
	result := execute(ctx, p.Outcome, p.op, func(ctx context.Context) (T, error) {
		return p.fetch(ctx, p.query())
	})

	if result.OK() {
		p.mu.Lock()
		p.data = result.Data
		p.mu.Unlock()
	}

	return result
}
