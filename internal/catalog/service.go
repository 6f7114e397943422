package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/vetcart/internal/cache"
	"github.com/fjod/vetcart/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// catalogKey is the single cache key for the full product listing.
const catalogKey = "all"

var ErrProductNotFound = errors.New("product not found in catalog")

// ProductSource is the part of the clinic client the catalog reads from.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	source ProductSource
	cache  cache.ProductCache
	sfg    singleflight.Group // collapses concurrent misses into one backend call
	logger *zap.Logger
}

func NewService(source ProductSource, cache cache.ProductCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// Products returns the catalog, from cache when possible.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(catalogKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx, catalogKey)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog cache get failed", zap.Error(err))
		}

		products, err = s.source.ListProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		go s.fill(products)

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	products := v.([]domain.Product)
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out, nil
}

func (s *Service) fill(products []domain.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, catalogKey, products); err != nil {
		s.logger.Warn("catalog cache set failed", zap.Error(err))
	}
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrProductNotFound)
}

// Search filters the catalog by a case-insensitive match on name or category.
// An empty query returns the whole catalog.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products, nil
	}

	matches := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Invalidate drops the cached listing so the next read hits the backend.
func (s *Service) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, catalogKey); err != nil {
		return fmt.Errorf("catalog invalidate failed: %w", err)
	}
	return nil
}
