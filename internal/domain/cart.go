package domain

// ItemDescriptor is what a screen hands to the cart: a line item without quantity.
type ItemDescriptor struct {
	ProductID string
	Name      string
	Price     float64
	Image     string
}

// CartLineItem is one product entry in the active cart.
// Quantity is always >= 1 for a stored line.
type CartLineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (i CartLineItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

func NewLineItem(d ItemDescriptor, quantity int) CartLineItem {
	return CartLineItem{
		ProductID: d.ProductID,
		Name:      d.Name,
		Price:     d.Price,
		Image:     d.Image,
		Quantity:  quantity,
	}
}

// SumTotal returns Σ price*quantity over items.
func SumTotal(items []CartLineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// CloneItems returns a new slice holding copies of items.
func CloneItems(items []CartLineItem) []CartLineItem {
	if items == nil {
		return nil
	}
	out := make([]CartLineItem, len(items))
	copy(out, items)
	return out
}
