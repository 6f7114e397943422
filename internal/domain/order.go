package domain

import "time"

type OrderStatus string

const (
	// OrderStatusPending is reserved; no code path produces it yet.
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPlaced  OrderStatus = "placed"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPlaced
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CheckoutOptions carries the optional correlation fields of a checkout.
type CheckoutOptions struct {
	AppointmentID string
	PickupDate    *time.Time
}

// LocalOrder is the in-memory record of a completed checkout.
// Items and Total are snapshots taken at checkout time.
type LocalOrder struct {
	ID            string         `json:"id"`
	Items         []CartLineItem `json:"items"`
	Total         float64        `json:"total"`
	AppointmentID string         `json:"appointment_id,omitempty"`
	PickupDate    *time.Time     `json:"pickup_date,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	Status        OrderStatus    `json:"status"`
}

// Clone returns a deep copy so callers never share item storage with the store.
func (o LocalOrder) Clone() LocalOrder {
	o.Items = CloneItems(o.Items)
	if o.PickupDate != nil {
		d := *o.PickupDate
		o.PickupDate = &d
	}
	return o
}

func (o LocalOrder) ItemCount() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}
