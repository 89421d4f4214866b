package domain

import "time"

// Rating bounds for product reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Product represents a catalog item. Reviews are embedded in the product
// document, and Rating/NumReviews are denormalized aggregates maintained
// on every review write.
type Product struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	Reviews      []Review  `json:"reviews"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Review is a single user review embedded in a product. Name snapshots the
// reviewer's display name at review time. At most one review per user is
// allowed on a product.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewFrom returns the review the given user left on the product, if any.
func (p *Product) ReviewFrom(userID string) (*Review, bool) {
	for i := range p.Reviews {
		if p.Reviews[i].UserID == userID {
			return &p.Reviews[i], true
		}
	}
	return nil, false
}
