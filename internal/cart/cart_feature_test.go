package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fjod/vetcart/internal/cart"
	"github.com/fjod/vetcart/internal/domain"
)

type cartTestContext struct {
	store  *cart.Store
	result cart.CheckoutResult
	placed *domain.LocalOrder
}

func (c *cartTestContext) reset() {
	c.store = cart.NewStore()
	c.result = cart.CheckoutResult{}
	c.placed = nil
}

func (c *cartTestContext) anEmptyCart() error {
	if c.store.Len() != 0 {
		return fmt.Errorf("expected empty cart, got %d lines", c.store.Len())
	}
	return nil
}

func (c *cartTestContext) iAddOfProductNamedPriced(qty int, id, name string, price float64) error {
	c.store.AddItem(domain.ItemDescriptor{ProductID: id, Name: name, Price: price}, qty)
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfTo(id string, qty int) error {
	c.store.UpdateQty(id, qty)
	return nil
}

func (c *cartTestContext) iCheckOut() error {
	c.result = c.store.Checkout(domain.CheckoutOptions{})
	if c.result.OK {
		c.placed = c.result.Order
	}
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := c.store.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theQuantityOfIs(id string, qty int) error {
	if got := c.store.Quantity(id); got != qty {
		return fmt.Errorf("expected quantity %d for %q, got %d", qty, id, got)
	}
	return nil
}

func (c *cartTestContext) theTotalIs(total float64) error {
	if got := c.store.Total(); got != total {
		return fmt.Errorf("expected total %v, got %v", total, got)
	}
	return nil
}

func (c *cartTestContext) theCheckoutSucceeds() error {
	if !c.result.OK || c.result.Order == nil {
		return fmt.Errorf("expected checkout to succeed, got err %v", c.result.Err)
	}
	return nil
}

func (c *cartTestContext) theCheckoutFails() error {
	if c.result.OK {
		return fmt.Errorf("expected checkout to fail")
	}
	if c.result.Order != nil {
		return fmt.Errorf("failed checkout returned an order")
	}
	return nil
}

func (c *cartTestContext) thePlacedOrderHasStatusAndTotal(status string, total float64) error {
	if c.placed == nil {
		return fmt.Errorf("no order was placed")
	}
	if c.placed.Status.String() != status {
		return fmt.Errorf("expected status %q, got %q", status, c.placed.Status)
	}
	if c.placed.Total != total {
		return fmt.Errorf("expected total %v, got %v", total, c.placed.Total)
	}
	return nil
}

func (c *cartTestContext) thePlacedOrderHoldsOfPriced(qty int, id string, price float64) error {
	orders := c.store.Orders()
	if len(orders) == 0 {
		return fmt.Errorf("order history is empty")
	}
	for _, item := range orders[0].Items {
		if item.ProductID == id {
			if item.Quantity != qty || item.Price != price {
				return fmt.Errorf("expected %d x %v for %q, got %d x %v", qty, price, id, item.Quantity, item.Price)
			}
			return nil
		}
	}
	return fmt.Errorf("product %q not in latest order", id)
}

func (c *cartTestContext) theCartIsEmpty() error {
	state := c.store.State()
	if !state.Empty() || state.Total != 0 {
		return fmt.Errorf("expected empty cart, got %d lines totalling %v", len(state.Items), state.Total)
	}
	return nil
}

func (c *cartTestContext) theLatestOrderIsTheOneJustPlaced() error {
	orders := c.store.Orders()
	if len(orders) == 0 || c.placed == nil || orders[0].ID != c.placed.ID {
		return fmt.Errorf("latest order is not the one just placed")
	}
	return nil
}

func (c *cartTestContext) theOrderHistoryHasOrders(n int) error {
	if got := len(c.store.Orders()); got != n {
		return fmt.Errorf("expected %d orders, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theLatestOrderHasTotal(total float64) error {
	orders := c.store.Orders()
	if len(orders) == 0 {
		return fmt.Errorf("order history is empty")
	}
	if orders[0].Total != total {
		return fmt.Errorf("expected latest total %v, got %v", total, orders[0].Total)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	// When steps
	ctx.Step(`^I add (-?\d+) of product "([^"]*)" named "([^"]*)" priced (\d+(?:\.\d+)?)$`, tc.iAddOfProductNamedPriced)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I check out$`, tc.iCheckOut)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the quantity of "([^"]*)" is (\d+)$`, tc.theQuantityOfIs)
	ctx.Step(`^the total is (\d+(?:\.\d+)?)$`, tc.theTotalIs)
	ctx.Step(`^the checkout succeeds$`, tc.theCheckoutSucceeds)
	ctx.Step(`^the checkout fails$`, tc.theCheckoutFails)
	ctx.Step(`^the placed order has status "([^"]*)" and total (\d+(?:\.\d+)?)$`, tc.thePlacedOrderHasStatusAndTotal)
	ctx.Step(`^the placed order holds (\d+) of "([^"]*)" priced (\d+(?:\.\d+)?)$`, tc.thePlacedOrderHoldsOfPriced)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the latest order is the one just placed$`, tc.theLatestOrderIsTheOneJustPlaced)
	ctx.Step(`^the order history has (\d+) orders?$`, tc.theOrderHistoryHasOrders)
	ctx.Step(`^the latest order has total (\d+(?:\.\d+)?)$`, tc.theLatestOrderHasTotal)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
