package api

import (
	"strconv"
	"time"

	"github.com/DOFONSON/beliy-client/session"
)

// The works API serializes decimal fields (prices) as strings; they are kept
// as strings on the wire types and parsed on demand.

// Comment on a product or article.
type Comment struct {
	ID        int64         `json:"id"`
	User      *session.User `json:"user"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"created_at"`
	CanDelete bool          `json:"can_delete"`
}

// Rating given by a user. User is the username, not the full profile.
type Rating struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Product in the storefront catalogue.
type Product struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Price         string    `json:"price"`
	Image         *string   `json:"image"`
	Description   string    `json:"description"`
	Comments      []Comment `json:"comments"`
	Ratings       []Rating  `json:"ratings"`
	AverageRating *float64  `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
}

// Article in the blog, addressed by slug.
type Article struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Image         *string   `json:"image"`
	Content       string    `json:"content"`
	Comments      []Comment `json:"comments"`
	Ratings       []Rating  `json:"ratings"`
	AverageRating *float64  `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CartItem is one line of the server-side cart.
type CartItem struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product"`
	ProductTitle string `json:"product_title"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	TotalPrice   string `json:"total_price"`
}

// Total returns the line total. The server-computed total_price is
// authoritative; price × quantity is derived only when the field is absent
// or unparsable.
func (i CartItem) Total() float64 {
	if total, err := strconv.ParseFloat(i.TotalPrice, 64); err == nil {
		return total
	}
	price, err := strconv.ParseFloat(i.ProductPrice, 64)
	if err != nil {
		return 0
	}
	return price * float64(i.Quantity)
}

// Cart is the server-side cart. It is never mutated locally; after any
// cart-mutating call the caller re-fetches it.
type Cart struct {
	ID         int64      `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice string     `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TotalItems sums quantities across all line items.
func (c Cart) TotalItems() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total returns the cart total, preferring the server-computed value.
func (c Cart) Total() float64 {
	if total, err := strconv.ParseFloat(c.TotalPrice, 64); err == nil {
		return total
	}
	sum := 0.0
	for _, item := range c.Items {
		sum += item.Total()
	}
	return sum
}
