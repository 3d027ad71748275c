package operation

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageRecorder struct {
	mu      sync.Mutex
	queries []url.Values
}

func (r *pageRecorder) fetch(_ context.Context, q url.Values) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries = append(r.queries, q)

	return q.Encode(), nil
}

func (r *pageRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.queries)
}

func TestPagerMount(t *testing.T) {
	rec := &pageRecorder{}
	p := NewPager(Op{Name: "test.pager"}, model.Pagination{Page: 0, Size: 10}, model.EquipmentFilter{Name: "b1"}, rec.fetch)

	assert.True(t, p.Loading(), "loading until the first fetch settles")

	// the watch guard refuses a page change before the mount fetch settled
	_, fetched := p.SetPage(context.Background(), 1)
	assert.False(t, fetched)

	got, mounted := p.Mount(context.Background())
	require.True(t, mounted)
	require.True(t, got.OK())
	assert.Equal(t, "name=b1&page=1&size=10", got.Data)
	assert.False(t, p.Loading())

	_, mounted = p.Mount(context.Background())
	assert.False(t, mounted)
	assert.Equal(t, 1, rec.count())
}

func TestPagerSetPagination(t *testing.T) {
	rec := &pageRecorder{}
	p := NewPager(Op{Name: "test.pager"}, model.Pagination{Page: 0, Size: 10}, nil, rec.fetch)
	p.Mount(context.Background())

	got, fetched := p.SetPage(context.Background(), 2)
	require.True(t, fetched)
	assert.Equal(t, "page=2&size=10", got.Data)

	got, fetched = p.SetSize(context.Background(), 25)
	require.True(t, fetched)
	assert.Equal(t, "page=2&size=25", got.Data)
	assert.Equal(t, "page=2&size=25", p.Data())

	// same selection, nothing to refetch
	_, fetched = p.SetPage(context.Background(), 2)
	assert.False(t, fetched)

	assert.Equal(t, 3, rec.count())
}

func TestPagerInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	var calls int

	var mu sync.Mutex

	p := NewPager(Op{Name: "test.pager"}, model.Pagination{Page: 0, Size: 10}, nil,
		func(_ context.Context, q url.Values) (string, error) {
			mu.Lock()
			calls++
			mu.Unlock()

			close(started)
			<-release

			return q.Encode(), nil
		},
	)

	done := make(chan Result[string])

	go func() {
		r, _ := p.Mount(context.Background())
		done <- r
	}()

	<-started

	_, fetched := p.SetPage(context.Background(), 3)
	assert.False(t, fetched, "no fetch while one is in flight")

	close(release)

	got := <-done
	assert.True(t, got.OK())
	assert.Equal(t, model.Pagination{Page: 3, Size: 10}, p.Pagination())

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, 1, calls)
}

func TestPagerFailureKeepsData(t *testing.T) {
	fail := false

	p := NewPager(Op{Name: "test.pager"}, model.Pagination{Size: 5}, nil,
		func(_ context.Context, q url.Values) (string, error) {
			if fail {
				return "", errors.New("request failed with status code 503")
			}

			return q.Encode(), nil
		},
	)

	p.Mount(context.Background())

	fail = true
	got, fetched := p.SetPage(context.Background(), 1)

	require.True(t, fetched)
	assert.False(t, got.OK())
	assert.Equal(t, "page=0&size=5", p.Data())
	assert.Equal(t, "request failed with status code 503", p.ErrMessage())
	assert.False(t, p.Loading())
}
