package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCategory is returned when a category selector is outside the closed set.
var ErrInvalidCategory = errors.New("invalid category")

// Category is a catalog partition. The set is closed.
type Category string

const (
	CategoryShelter  Category = "shelter"
	CategoryFoodBank Category = "food_bank"
	CategoryClinic   Category = "clinic"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryShelter, CategoryFoodBank, CategoryClinic}
}

// ParseCategory validates a raw selector. Matching is exact: "Shelter" and
// "food-bank" are rejected rather than guessed at.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryShelter, CategoryFoodBank, CategoryClinic:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q (want one of shelter, food_bank, clinic)", ErrInvalidCategory, s)
}

func (c Category) String() string { return string(c) }
