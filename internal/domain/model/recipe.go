package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Tags        []Tag        `json:"tags,omitempty"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}
