package model

import (
	"time"
)

// Ingredient has the same ownership shape as Tag.
type Ingredient struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
