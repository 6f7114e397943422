package catalog

import (
	"context"
	"time"

	"github.com/fjod/vetcart/internal/domain"
	"go.uber.org/zap"
)

// Poller reloads the catalog from the backend on a fixed interval so stock and
// prices stay current while the shop is open.
type Poller struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger
}

func NewPoller(service *Service, interval time.Duration, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{service: service, interval: interval, logger: logger}
}

// Run blocks until ctx is done, passing every successful reload to onUpdate.
// A non-positive interval returns immediately.
func (p *Poller) Run(ctx context.Context, onUpdate func([]domain.Product)) {
	if p.interval <= 0 {
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, onUpdate)
		}
	}
}

func (p *Poller) refresh(ctx context.Context, onUpdate func([]domain.Product)) {
	if err := p.service.Invalidate(ctx); err != nil {
		p.logger.Warn("catalog refresh: invalidate failed", zap.Error(err))
	}
	products, err := p.service.Products(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("catalog refresh failed", zap.Error(err))
		}
		return
	}
	p.logger.Debug("catalog refreshed", zap.Int("products", len(products)))
	onUpdate(products)
}
