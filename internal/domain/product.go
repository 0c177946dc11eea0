package domain

import "time"

type Product struct {
	ID           string    `bson:"_id" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	Price        float64   `bson:"price" json:"price"`
	Image        string    `bson:"image" json:"image"`
	Category     string    `bson:"category" json:"category"`
	Seller       string    `bson:"seller" json:"seller"`
	Rating       float64   `bson:"rating" json:"rating"`
	ReviewCount  int       `bson:"review_count" json:"review_count"`
	InStock      bool      `bson:"in_stock" json:"in_stock"`
	Badge        string    `bson:"badge,omitempty" json:"badge,omitempty"`
	FreeShipping bool      `bson:"free_shipping" json:"free_shipping"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
