package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Cart holds one user's line items. Version is bumped by every mutation.
type Cart struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID  int                `bson:"userId" json:"userId"`
	Books   []CartItem         `bson:"books" json:"books"`
	Version int64              `bson:"version" json:"version"`
}

// CartItem is a snapshot of a Book taken when it was first added to the cart.
type CartItem struct {
	ISBN     string `bson:"isbn" json:"isbn"`
	Title    string `bson:"title" json:"title"`
	Author   string `bson:"author" json:"author"`
	Price    Amount `bson:"price" json:"price"`
	Quantity Count  `bson:"quantity" json:"quantity"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// NewCartItem snapshots book into a line item with the given quantity.
func NewCartItem(book *Book, quantity int) CartItem {
	return CartItem{
		ISBN:     book.ISBN,
		Title:    book.Title,
		Author:   book.Author,
		Price:    book.Price,
		Quantity: Count(quantity),
		ImageURL: book.ImageURL,
	}
}
