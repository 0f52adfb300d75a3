package db

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/sunlight/internal/models"
)

// DefaultProducts is the built-in lamp catalog.
func DefaultProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Modern Industrial Lamp", Category: "Industrial", Price: 89.99, OriginalPrice: 120.00,
			Image: "/src/assets/img/industrial-lamp.png", Rating: 4.8,
			Description: "A sleek industrial-style lamp perfect for modern workspaces", InStock: true, Featured: true},
		{ID: "2", Name: "Ultra Wide Desk Lamp", Category: "Desk Lamp", Price: 129.99, OriginalPrice: 160.00,
			Image: "/src/assets/img/ultrawide-lamp.png", Rating: 4.9,
			Description: "Wide illumination area perfect for large desks and workstations", InStock: true, Featured: true},
		{ID: "3", Name: "Minimalist Table Lamp", Category: "Table Lamp", Price: 69.99, OriginalPrice: 90.00,
			Image: "/src/assets/img/modern-lamp.png", Rating: 4.7,
			Description: "Clean, minimalist design that complements any decor", InStock: true},
		{ID: "4", Name: "SuperBowl Floor Lamp", Category: "Floor Lamp", Price: 199.99, OriginalPrice: 250.00,
			Image: "/src/assets/img/superbolw-lamp.png", Rating: 4.9,
			Description: "Statement floor lamp with unique bowl design", InStock: true, Featured: true},
		{ID: "5", Name: "Stickness Light", Category: "Desk Lamp", Price: 45.99, OriginalPrice: 60.00,
			Image: "/src/assets/img/stickness-light.png", Rating: 4.5,
			Description: "Compact and portable desk lighting solution", InStock: true},
		{ID: "6", Name: "Roundness Light", Category: "Ceiling Lamp", Price: 89.99, OriginalPrice: 110.00,
			Image: "/src/assets/img/roundness-light.png", Rating: 4.6,
			Description: "Elegant round ceiling light for ambient illumination", InStock: true},
	}
}

// catalogFile is the layout of a YAML catalog file.
type catalogFile struct {
	Products []models.Product `yaml:"products"`
}

// LoadProductsYAML reads a catalog file of the form `products: [...]`.
func LoadProductsYAML(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	seen := make(map[models.ProductID]bool, len(cf.Products))
	for i, p := range cf.Products {
		if p.ID.IsZero() {
			return nil, fmt.Errorf("catalog file %s: product %d has no id", path, i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("catalog file %s: duplicate product id %s", path, p.ID)
		}
		seen[p.ID] = true
	}
	return cf.Products, nil
}

// memoryProductRepository serves an immutable product list.
type memoryProductRepository struct {
	products []models.Product
	byID     map[models.ProductID]int
}

// NewMemoryProductRepository returns a ProductRepository over products.
func NewMemoryProductRepository(products []models.Product) ProductRepository {
	r := &memoryProductRepository{
		products: append([]models.Product(nil), products...),
		byID:     make(map[models.ProductID]int, len(products)),
	}
	for i, p := range r.products {
		r.byID[p.ID] = i
	}
	return r
}

func (r *memoryProductRepository) List(_ context.Context) ([]models.Product, error) {
	return append([]models.Product(nil), r.products...), nil
}

func (r *memoryProductRepository) GetByID(_ context.Context, id models.ProductID) (*models.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("product '%s': %w", id, ErrNotFound)
	}
	p := r.products[i]
	return &p, nil
}
