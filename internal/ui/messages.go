package ui

import (
	"github.com/fjod/vetcart/internal/cart"
	"github.com/fjod/vetcart/internal/checkout"
	"github.com/fjod/vetcart/internal/domain"
)

// storeChangedMsg tells the model to re-read the cart store.
type storeChangedMsg struct{}

type noticeMsg cart.Notice

type productsMsg struct {
	products []domain.Product
	err      error
}

type checkoutMsg struct {
	result *checkout.Result
	err    error
}
