package inventory

import (
	"errors"
	"fmt"
	"sync"
)

// Product is a catalog entry with its remaining stock.
type Product struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Reservation is the outcome of a successful check-and-decrement.
type Reservation struct {
	ProductID string
	Reserved  int
	Remaining int
}

// ErrNotFound reports an unknown product id.
var ErrNotFound = errors.New("product not found")

// InsufficientStockError is a business rejection, not a system failure:
// the product exists but the requested quantity exceeds what is left.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Store owns the stock table. Check-then-decrement runs as one critical
// section under the store mutex, so concurrent reservations for the same
// product never both pass the check when only one of them fits.
type Store struct {
	mu       sync.Mutex
	products map[string]*Product
}

// NewStore creates a store seeded with the demo catalog.
func NewStore() *Store {
	return &Store{
		products: map[string]*Product{
			"PROD-001": {Name: "Laptop", Stock: 50},
			"PROD-002": {Name: "Mouse", Stock: 200},
			"PROD-003": {Name: "Keyboard", Stock: 100},
			"PROD-004": {Name: "Monitor", Stock: 30},
			"PROD-005": {Name: "Headphones", Stock: 75},
		},
	}
}

// NewEmptyStore creates a store with no products.
func NewEmptyStore() *Store {
	return &Store{products: make(map[string]*Product)}
}

// Seed adds or replaces a product.
func (s *Store) Seed(id, name string, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = &Product{Name: name, Stock: stock}
}

// Reserve atomically checks and decrements stock for a product. A quantity
// below one defaults to one. It returns ErrNotFound for unknown products
// and *InsufficientStockError when stock does not cover the request; stock
// is left untouched in both cases.
func (s *Store) Reserve(productID string, quantity int) (*Reservation, error) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, ErrNotFound
	}

	if product.Stock < quantity {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: product.Stock,
		}
	}

	product.Stock -= quantity
	return &Reservation{
		ProductID: productID,
		Reserved:  quantity,
		Remaining: product.Stock,
	}, nil
}

// Get returns a copy of a single product.
func (s *Store) Get(productID string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return Product{}, false
	}
	return *product, true
}

// Snapshot returns a copy of the full catalog.
func (s *Store) Snapshot() map[string]Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Product, len(s.products))
	for id, product := range s.products {
		out[id] = *product
	}
	return out
}
