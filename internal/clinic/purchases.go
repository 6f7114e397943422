package clinic

import (
	"context"
	"net/http"

	"github.com/fjod/vetcart/internal/domain"
)

// SubmitPurchase records a purchase on the backend. It does not touch the local cart.
func (c *Client) SubmitPurchase(ctx context.Context, req domain.PurchaseRequest) (*domain.PurchaseReceipt, error) {
	var receipt domain.PurchaseReceipt
	if err := c.do(ctx, http.MethodPost, "purchases", req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
