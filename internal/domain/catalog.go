package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category группа услуг в каталоге
type Category string

const (
	CategoryNails    Category = "nails"
	CategoryEyebrows Category = "eyebrows"
)

// Service услуга салона. Имя уникально в пределах каталога
type Service struct {
	Name     string
	Price    decimal.Decimal
	Category Category
}

// Catalog неизменяемый справочник услуг, создается при старте процесса
type Catalog struct {
	services []Service
	byName   map[string]Service
}

// NewCatalog создает каталог, проверяя уникальность имён и неотрицательность цен
func NewCatalog(services ...Service) (*Catalog, error) {
	c := &Catalog{
		services: make([]Service, 0, len(services)),
		byName:   make(map[string]Service, len(services)),
	}

	for _, s := range services {
		if _, exists := c.byName[s.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateService, s.Name)
		}
		if s.Price.IsNegative() {
			return nil, fmt.Errorf("%w: %q", ErrNegativePrice, s.Name)
		}
		c.services = append(c.services, s)
		c.byName[s.Name] = s
	}

	return c, nil
}

// DefaultCatalog возвращает фиксированный список услуг салона
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		Service{Name: "Gel na tips", Price: decimal.RequireFromString("120.00"), Category: CategoryNails},
		Service{Name: "Manutenção gel", Price: decimal.RequireFromString("60.00"), Category: CategoryNails},
		Service{Name: "Banho de gel", Price: decimal.RequireFromString("100.00"), Category: CategoryNails},
		Service{Name: "Manicure", Price: decimal.RequireFromString("35.00"), Category: CategoryNails},
		Service{Name: "Pedicure", Price: decimal.RequireFromString("35.00"), Category: CategoryNails},
		Service{Name: "Combo Mani + Pedi", Price: decimal.RequireFromString("60.00"), Category: CategoryNails},
		Service{Name: "Designer com Henna", Price: decimal.RequireFromString("35.00"), Category: CategoryEyebrows},
		Service{Name: "Designer Natural", Price: decimal.RequireFromString("25.00"), Category: CategoryEyebrows},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Find ищет услугу по точному имени
func (c *Catalog) Find(name string) (Service, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// Services возвращает копию списка услуг в порядке объявления
func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// Categories возвращает категории в порядке первого появления
func (c *Catalog) Categories() []Category {
	seen := make(map[Category]bool)
	out := make([]Category, 0, 2)
	for _, s := range c.services {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// ByCategory возвращает услуги указанной категории
func (c *Catalog) ByCategory(category Category) []Service {
	out := make([]Service, 0)
	for _, s := range c.services {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
