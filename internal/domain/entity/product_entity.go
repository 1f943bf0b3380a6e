package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a top-level catalog record. Carts hold value copies of these
// fields, never references, so deleting a product leaves carts untouched.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductImage ImageRef           `bson:"productImage" json:"productImage"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category" json:"category"`
	Price        float64            `bson:"price" json:"price"`
	Count        int                `bson:"count" json:"count"`
}
