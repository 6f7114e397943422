package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/vetcart/internal/cache"
	"github.com/fjod/vetcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var products = []domain.Product{
	{ID: "p1", Name: "Kibble 5kg", Price: 32.5, Category: "Food", Stock: 10},
	{ID: "p2", Name: "Flea collar", Price: 14, Category: "Care", Stock: 4},
	{ID: "p3", Name: "Dental chews", Price: 6, Category: "Food", Stock: 0},
}

type mockSource struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (m *mockSource) ListProducts(context.Context) ([]domain.Product, error) {
	m.calls.Add(1)
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	return products, nil
}

type mockCache struct {
	m        sync.RWMutex
	products []domain.Product
	getErr   error
	setErr   error
}

func (m *mockCache) Get(context.Context, string) ([]domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.products == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.products, nil
}

func (m *mockCache) Set(_ context.Context, _ string, p []domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products = p
	return m.setErr
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products = nil
	return nil
}

func (m *mockCache) cached() []domain.Product {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.products
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestProducts_CacheMissFillsCache(t *testing.T) {
	source := &mockSource{}
	c := &mockCache{}
	sut := NewService(source, c, nil)

	got, err := sut.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, products, got)
	assert.Equal(t, int32(1), source.calls.Load())

	require.Eventually(t, func() bool {
		return c.cached() != nil
	}, 100*time.Millisecond, 5*time.Millisecond, "catalog was not set in cache")
}

func TestProducts_CacheHit(t *testing.T) {
	source := &mockSource{}
	c := &mockCache{products: products[:1]}
	sut := NewService(source, c, nil)

	got, err := sut.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(0), source.calls.Load())
}

func TestProducts_CacheErrorFallsBackToSource(t *testing.T) {
	source := &mockSource{}
	c := &mockCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	sut := NewService(source, c, nil)

	got, err := sut.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, int32(1), source.calls.Load())

	// let the background fill finish before goleak checks
	require.Eventually(t, func() bool {
		return c.cached() != nil
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestProducts_SourceError(t *testing.T) {
	source := &mockSource{err: errors.New("backend down")}
	sut := NewService(source, &mockCache{}, nil)

	got, err := sut.Products(context.Background())
	require.ErrorContains(t, err, "backend down")
	assert.Nil(t, got)
}

func TestProducts_ConcurrentMissesShareOneCall(t *testing.T) {
	source := &mockSource{release: make(chan struct{})}
	c := &mockCache{}
	sut := NewService(source, c, nil)

	const callers = 10
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			_, err := sut.Products(context.Background())
			assert.NoError(t, err)
		}()
	}
	started.Wait()
	require.Eventually(t, func() bool {
		return source.calls.Load() == 1
	}, 100*time.Millisecond, 5*time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Less(t, source.calls.Load(), int32(callers))
	require.Eventually(t, func() bool {
		return c.cached() != nil
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestProducts_ReturnsCopy(t *testing.T) {
	c := &mockCache{products: []domain.Product{{ID: "p1", Name: "Kibble"}}}
	sut := NewService(&mockSource{}, c, nil)

	got, err := sut.Products(context.Background())
	require.NoError(t, err)
	got[0].Name = "changed"

	assert.Equal(t, "Kibble", c.cached()[0].Name)
}

func TestProduct(t *testing.T) {
	sut := NewService(&mockSource{}, &mockCache{products: products}, nil)

	p, err := sut.Product(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Flea collar", p.Name)

	_, err = sut.Product(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSearch(t *testing.T) {
	sut := NewService(&mockSource{}, &mockCache{products: products}, nil)
	ctx := context.Background()

	food, err := sut.Search(ctx, "food")
	require.NoError(t, err)
	assert.Len(t, food, 2)

	collar, err := sut.Search(ctx, "  COLLAR ")
	require.NoError(t, err)
	require.Len(t, collar, 1)
	assert.Equal(t, "p2", collar[0].ID)

	all, err := sut.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInvalidate(t *testing.T) {
	source := &mockSource{}
	c := &mockCache{products: products}
	sut := NewService(source, c, nil)

	require.NoError(t, sut.Invalidate(context.Background()))
	assert.Nil(t, c.cached())

	_, err := sut.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), source.calls.Load())

	require.Eventually(t, func() bool {
		return c.cached() != nil
	}, 100*time.Millisecond, 5*time.Millisecond)
}
