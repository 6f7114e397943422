package cart

import (
	"sync"
	"time"

	"github.com/fjod/vetcart/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultQuantity is used when AddItem is called with a zero quantity.
const DefaultQuantity = 1

// State is a read-only view of the store. Items and Orders are copies.
type State struct {
	Items  []domain.CartLineItem
	Total  float64
	Orders []domain.LocalOrder
}

func (s State) Empty() bool {
	return len(s.Items) == 0
}

// CheckoutResult reports a checkout. OK means an order was recorded; Err may
// still be ErrCartChanged when the cart was left untouched.
type CheckoutResult struct {
	OK    bool
	Order *domain.LocalOrder
	Err   error
}

type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store owns the cart line items and the local order history for one app session.
// Every mutation swaps in freshly built slices, so stored slices are never
// written after they are published.
type Store struct {
	mu        sync.Mutex
	items     []domain.CartLineItem
	orders    []domain.LocalOrder // most recent first
	listeners []subscription
	nextSubID int

	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = logNotifier{logger: s.logger}
	}
	return s
}

// State returns the current items, a freshly computed total and the order history.
func (s *Store) State() State {
	s.mu.Lock()
	items, orders := s.items, s.orders
	s.mu.Unlock()
	return newState(items, orders)
}

func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneItems(s.items)
}

func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SumTotal(s.items)
}

func (s *Store) Orders() []domain.LocalOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.orders)
}

// Len returns the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Quantity returns the quantity of productID in the cart, or 0 if absent.
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.items, productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Subscribe registers fn to receive the new state after every mutation.
// Listeners run in subscription order on the mutating goroutine, outside the lock.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			kept := make([]subscription, 0, len(s.listeners))
			for _, sub := range s.listeners {
				if sub.id != id {
					kept = append(kept, sub)
				}
			}
			s.listeners = kept
		})
	}
}

// AddItem merges quantity into the line for item.ProductID, or appends a new line.
// A zero quantity means DefaultQuantity.
func (s *Store) AddItem(item domain.ItemDescriptor, quantity int) {
	if quantity == 0 {
		quantity = DefaultQuantity
	}

	s.mu.Lock()
	idx := indexOf(s.items, item.ProductID)
	var next []domain.CartLineItem
	switch {
	case idx >= 0:
		merged := s.items[idx].Quantity + quantity
		if merged <= 0 {
			next = without(s.items, idx)
		} else {
			next = domain.CloneItems(s.items)
			next[idx].Quantity = merged
		}
	case quantity > 0:
		next = make([]domain.CartLineItem, 0, len(s.items)+1)
		next = append(next, s.items...)
		next = append(next, domain.NewLineItem(item, quantity))
	default:
		s.mu.Unlock()
		return
	}
	s.items = next
	s.publishAndUnlock()

	s.logger.Debug("cart item added",
		zap.String("product_id", item.ProductID),
		zap.Int("quantity", quantity))
}

// UpdateQty sets an absolute quantity; quantity <= 0 removes the line.
func (s *Store) UpdateQty(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	idx := indexOf(s.items, productID)
	if idx < 0 || s.items[idx].Quantity == quantity {
		s.mu.Unlock()
		return
	}
	next := domain.CloneItems(s.items)
	next[idx].Quantity = quantity
	s.items = next
	s.publishAndUnlock()

	s.logger.Debug("cart quantity updated",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity))
}

func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	idx := indexOf(s.items, productID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = without(s.items, idx)
	s.publishAndUnlock()

	s.logger.Debug("cart item removed", zap.String("product_id", productID))
}

// ClearCart empties the cart. Order history is kept.
func (s *Store) ClearCart() {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.items = nil
	s.publishAndUnlock()

	s.logger.Debug("cart cleared")
}

// Checkout snapshots the cart into a placed LocalOrder, prepends it to the
// history and clears the cart. An empty cart yields OK=false, a notice and no
// state change.
func (s *Store) Checkout(opts domain.CheckoutOptions) CheckoutResult {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		s.logger.Info("checkout rejected", zap.Error(ErrEmptyCart))
		s.notifier.Notify(emptyCartNotice)
		return CheckoutResult{Err: ErrEmptyCart}
	}

	order := s.newOrder(s.items, opts)
	orders := make([]domain.LocalOrder, 0, len(s.orders)+1)
	orders = append(orders, order)
	orders = append(orders, s.orders...)
	s.orders = orders
	s.items = nil
	s.publishAndUnlock()

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Items)),
		zap.Float64("total", order.Total))

	placed := order.Clone()
	return CheckoutResult{OK: true, Order: &placed}
}

// CheckoutSubmitted records an order for submitted, the lines a backend purchase
// was built from, even if the cart moved on since. The cart is cleared only when
// it still holds exactly those lines; otherwise it is left alone and the result
// carries the order together with ErrCartChanged. No notice is raised for a
// changed cart. An empty submitted slice behaves like Checkout.
func (s *Store) CheckoutSubmitted(submitted []domain.CartLineItem, opts domain.CheckoutOptions) CheckoutResult {
	if len(submitted) == 0 {
		return s.Checkout(opts)
	}

	s.mu.Lock()
	unchanged := sameLines(s.items, submitted)
	order := s.newOrder(submitted, opts)
	orders := make([]domain.LocalOrder, 0, len(s.orders)+1)
	orders = append(orders, order)
	orders = append(orders, s.orders...)
	s.orders = orders
	if unchanged {
		s.items = nil
	}
	s.publishAndUnlock()

	placed := order.Clone()
	if !unchanged {
		s.logger.Warn("order placed from a stale cart",
			zap.String("order_id", order.ID),
			zap.Int("lines", len(order.Items)),
			zap.Float64("total", order.Total))
		return CheckoutResult{OK: true, Order: &placed, Err: ErrCartChanged}
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Items)),
		zap.Float64("total", order.Total))
	return CheckoutResult{OK: true, Order: &placed}
}

// newOrder must be called with s.mu held.
func (s *Store) newOrder(items []domain.CartLineItem, opts domain.CheckoutOptions) domain.LocalOrder {
	order := domain.LocalOrder{
		ID:            s.newID(),
		Items:         domain.CloneItems(items),
		Total:         domain.SumTotal(items),
		AppointmentID: opts.AppointmentID,
		CreatedAt:     s.now(),
		Status:        domain.OrderStatusPlaced,
	}
	if opts.PickupDate != nil {
		pickup := *opts.PickupDate
		order.PickupDate = &pickup
	}
	return order
}

// publishAndUnlock must be called with s.mu held. It releases the lock and
// hands the committed state to every listener.
func (s *Store) publishAndUnlock() {
	items, orders := s.items, s.orders
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(newState(items, orders))
	}
}

func newState(items []domain.CartLineItem, orders []domain.LocalOrder) State {
	return State{
		Items:  domain.CloneItems(items),
		Total:  domain.SumTotal(items),
		Orders: cloneOrders(orders),
	}
}

func cloneOrders(orders []domain.LocalOrder) []domain.LocalOrder {
	if orders == nil {
		return nil
	}
	out := make([]domain.LocalOrder, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

// sameLines reports whether a and b hold the same lines in the same order.
func sameLines(a, b []domain.CartLineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexOf(items []domain.CartLineItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func without(items []domain.CartLineItem, idx int) []domain.CartLineItem {
	if len(items) == 1 {
		return nil
	}
	out := make([]domain.CartLineItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}
