package cache

import (
	"context"
	"errors"

	"github.com/fjod/vetcart/internal/domain"
)

// ProductCache stores catalog listings fetched from the clinic backend.
// It never holds cart or order state.
type ProductCache interface {
	Get(ctx context.Context, key string) ([]domain.Product, error)
	Set(ctx context.Context, key string, products []domain.Product) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
