package cart

import "errors"

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// ErrCartChanged reports that the cart no longer holds the lines an order was built from.
	ErrCartChanged = errors.New("cart changed since the order was submitted")
)
