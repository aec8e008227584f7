package domain

import "errors"

type Category string

const (
	CategorySmoothie  Category = "smoothie"
	CategoryBurger    Category = "burger"
	CategorySpaghetti Category = "spaghetti"
	CategoryOther     Category = "other"
)

// ValidCategory reports whether c is a known menu category.
func ValidCategory(c Category) bool {
	switch c {
	case CategorySmoothie, CategoryBurger, CategorySpaghetti, CategoryOther:
		return true
	}
	return false
}

// Ingredient is a fixed part of a base item.
type Ingredient struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// AddOn is an optional priced ingredient a customer can stack on a base item.
type AddOn struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Emoji string `json:"emoji"`
	Color string `json:"color,omitempty"`
}

// MenuItem represents a purchasable base product. Prices are integer naira.
type MenuItem struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Category        Category     `json:"category"`
	Price           int          `json:"price"`
	Description     string       `json:"description"`
	Color           string       `json:"color"`
	Image           string       `json:"image,omitempty"`
	InStock         bool         `json:"in_stock"`
	BaseIngredients []Ingredient `json:"base_ingredients"`
	AddOns          []AddOn      `json:"add_ons"`
}

// Validate applies catalog business rules.
func (m *MenuItem) Validate() error {
	if m.Name == "" {
		return errors.New("menu item name is required")
	}
	if m.Price < 0 {
		return ErrNegativePrice
	}
	if !ValidCategory(m.Category) {
		return errors.New("invalid menu category")
	}
	for _, a := range m.AddOns {
		if a.Name == "" {
			return errors.New("add-on name is required")
		}
		if a.Price < 0 {
			return ErrNegativePrice
		}
	}
	return nil
}

// FindAddOn looks up an add-on definition by name.
func (m *MenuItem) FindAddOn(name string) (AddOn, bool) {
	for _, a := range m.AddOns {
		if a.Name == name {
			return a, true
		}
	}
	return AddOn{}, false
}

var (
	ErrNegativePrice = errors.New("price must be a non-negative integer")
	ErrOutOfStock    = errors.New("item is out of stock")
)
