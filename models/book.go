package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Book is a catalog entry. ISBN is the business key; _id is never exposed.
type Book struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ISBN     string             `bson:"isbn" json:"isbn"`
	Title    string             `bson:"title" json:"title"`
	Author   string             `bson:"author" json:"author"`
	Price    Amount             `bson:"price" json:"price"`
	ImageURL string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// BookUpdate carries the fields of a partial book update. Nil fields are left untouched.
type BookUpdate struct {
	Title    *string
	Author   *string
	Price    *float64
	ImageURL *string
}

func (u BookUpdate) Empty() bool {
	return u.Title == nil && u.Author == nil && u.Price == nil && u.ImageURL == nil
}
