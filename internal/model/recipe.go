package model

import "time"

// Recipe is a catalog entry. UserID records the owner at creation time
// and never changes; Image is set only through the upload endpoint and
// is omitted from JSON until then.
type Recipe struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Ingredients string    `json:"ingredients" db:"ingredients"`
	Preparation string    `json:"preparation" db:"preparation"`
	Image       *string   `json:"image,omitempty" db:"image"`
	UserID      string    `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type RecipeRequest struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
	Preparation string `json:"preparation"`
}
