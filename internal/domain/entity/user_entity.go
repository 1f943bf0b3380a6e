package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default avatar assigned on registration when no image is uploaded.
const (
	DefaultAvatarID  = "default_avatar_id"
	DefaultAvatarURL = "https://res.cloudinary.com/dnqyfwhbk/image/upload/v1747068681/default-user-avatar_qezhg0.svg"
)

// ImageRef is a hosted-image reference: the storage object id and its public URL.
type ImageRef struct {
	ID  string `bson:"id" json:"id"`
	URL string `bson:"url" json:"url"`
}

// CartItem is one entry in a user's cart: a snapshot of the product fields
// taken at add time. Later catalog edits do not propagate here.
// Every item gets a unique ID at insert so duplicates stay addressable.
type CartItem struct {
	ID           string   `bson:"id" json:"id"`
	ProductImage ImageRef `bson:"productImage" json:"productImage"`
	Name         string   `bson:"name" json:"name"`
	Category     string   `bson:"category" json:"category"`
	Price        float64  `bson:"price" json:"price"`
	Count        int      `bson:"count" json:"count"`
}

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password.
// Version guards cart writes against concurrent read-modify-write races.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	UserAvatar ImageRef           `bson:"userAvatar" json:"userAvatar"`
	Admin      bool               `bson:"admin" json:"admin"`
	Cart       []CartItem         `bson:"cart" json:"cart"`
	Version    int64              `bson:"version" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultAvatar returns the avatar assigned to accounts created without an upload.
func DefaultAvatar() ImageRef {
	return ImageRef{ID: DefaultAvatarID, URL: DefaultAvatarURL}
}
