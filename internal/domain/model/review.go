package model

import "time"

// Review is a customer's rating of a product.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
