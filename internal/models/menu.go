package models

import "time"

// SnackMenu holds one calendar day's snack offer.
type SnackMenu struct {
	ID             int64     `db:"id" json:"id"`
	Date           time.Time `db:"date" json:"date"`
	Normal         *string   `db:"normal" json:"normal,omitempty"`
	Poultry        *string   `db:"poultry" json:"poultry,omitempty"`
	Vegetarian     *string   `db:"vegetarian" json:"vegetarian,omitempty"`
	FruitVegetable *string   `db:"fruit_vegetable" json:"fruit_vegetable,omitempty"`
}

// LunchMenu holds one calendar day's lunch offer.
type LunchMenu struct {
	ID         int64     `db:"id" json:"id"`
	Date       time.Time `db:"date" json:"date"`
	Normal     *string   `db:"normal" json:"normal,omitempty"`
	Vegetarian *string   `db:"vegetarian" json:"vegetarian,omitempty"`
}
