package domain

import "time"

type PurchaseItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// PurchaseRequest is the body of the backend purchase submission.
type PurchaseRequest struct {
	Items         []PurchaseItem `json:"items"`
	Total         float64        `json:"total"`
	AppointmentID string         `json:"appointment_id,omitempty"`
	PickupDate    *time.Time     `json:"pickup_date,omitempty"`
}

type PurchaseReceipt struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPurchaseRequest(items []CartLineItem, opts CheckoutOptions) PurchaseRequest {
	req := PurchaseRequest{
		Items:         make([]PurchaseItem, 0, len(items)),
		Total:         SumTotal(items),
		AppointmentID: opts.AppointmentID,
		PickupDate:    opts.PickupDate,
	}
	for _, item := range items {
		req.Items = append(req.Items, PurchaseItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	return req
}
