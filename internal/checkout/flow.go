package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/vetcart/internal/cart"
	"github.com/fjod/vetcart/internal/domain"
	"go.uber.org/zap"
)

// ErrCartChanged is returned with a Result when the cart was edited while the
// purchase was being submitted. The order records what the backend received.
var ErrCartChanged = cart.ErrCartChanged

// PurchaseSubmitter records a purchase on the clinic backend.
type PurchaseSubmitter interface {
	SubmitPurchase(ctx context.Context, req domain.PurchaseRequest) (*domain.PurchaseReceipt, error)
}

type Result struct {
	Order   domain.LocalOrder
	Receipt domain.PurchaseReceipt
}

// Flow is the checkout screen's logic: the backend purchase goes first and the
// local cart is only checked out once the backend accepted it.
type Flow struct {
	store     *cart.Store
	submitter PurchaseSubmitter
	logger    *zap.Logger
}

func NewFlow(store *cart.Store, submitter PurchaseSubmitter, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		store:     store,
		submitter: submitter,
		logger:    logger,
	}
}

func (f *Flow) Place(ctx context.Context, opts domain.CheckoutOptions) (*Result, error) {
	state := f.store.State()
	if state.Empty() {
		// the store raises the empty-cart notice
		res := f.store.Checkout(opts)
		return nil, res.Err
	}

	req := domain.NewPurchaseRequest(state.Items, opts)
	receipt, err := f.submitter.SubmitPurchase(ctx, req)
	if err != nil {
		f.logger.Warn("purchase submission failed",
			zap.Int("lines", len(req.Items)),
			zap.Float64("total", req.Total),
			zap.Error(err))
		return nil, fmt.Errorf("failed to submit purchase: %w", err)
	}

	res := f.store.CheckoutSubmitted(state.Items, opts)
	if !res.OK {
		return nil, fmt.Errorf("purchase %s: %w", receipt.ID, res.Err)
	}
	if errors.Is(res.Err, cart.ErrCartChanged) {
		f.logger.Warn("cart changed during purchase submission",
			zap.String("purchase_id", receipt.ID),
			zap.String("order_id", res.Order.ID))
		return &Result{Order: *res.Order, Receipt: *receipt}, ErrCartChanged
	}

	f.logger.Info("checkout completed",
		zap.String("order_id", res.Order.ID),
		zap.String("purchase_id", receipt.ID),
		zap.Float64("total", res.Order.Total))

	return &Result{Order: *res.Order, Receipt: *receipt}, nil
}
