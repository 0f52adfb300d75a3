package models

// Product is a catalog entry.
type Product struct {
	ID            ProductID `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Category      string    `json:"category" yaml:"category"`
	Price         float64   `json:"price" yaml:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty" yaml:"originalPrice"`
	Image         string    `json:"image" yaml:"image"`
	Rating        float64   `json:"rating" yaml:"rating"`
	Description   string    `json:"description" yaml:"description"`
	InStock       bool      `json:"inStock" yaml:"inStock"`
	Featured      bool      `json:"featured" yaml:"featured"`
}

// AsCartProduct returns the fields copied into a cart line.
func (p Product) AsCartProduct() CartProduct {
	return CartProduct{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, Category: p.Category}
}
