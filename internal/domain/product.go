package domain

// Product is a shop entry as served by the clinic backend.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock"`
}

// Descriptor copies the fields a cart line needs at add time.
func (p Product) Descriptor() ItemDescriptor {
	return ItemDescriptor{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.ImageURL,
	}
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
