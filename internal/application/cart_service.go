package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/domain/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCartConflict    = errors.New("cart was modified concurrently, try again")
)

// Attempts per cart mutation before giving up on version conflicts.
const cartRetries = 3

// ItemRef identifies a cart line. ItemID wins when present, the image URL
// is kept for clients that still address items by product image.
type ItemRef struct {
	ItemID   string
	ImageURL string
}

// CartService mutates the cart embedded in the user document. Every write
// goes through a read-modify-replace guarded by the document version.
type CartService struct {
	users repository.UserRepository
}

func NewCartService(users repository.UserRepository) *CartService {
	return &CartService{users: users}
}

// Items returns the user's cart as stored.
func (s *CartService) Items(ctx context.Context, userID string) ([]entity.CartItem, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Cart, nil
}

// Add appends the product as a new cart line with a fresh item id and
// returns the full cart.
func (s *CartService) Add(ctx context.Context, userID string, p entity.Product) ([]entity.CartItem, error) {
	var cart []entity.CartItem
	err := s.mutate(ctx, userID, func(u *entity.User) error {
		item := entity.CartItem{
			ID:           uuid.NewString(),
			ProductImage: p.ProductImage,
			Name:         p.Name,
			Category:     p.Category,
			Price:        p.Price,
			Count:        p.Count,
		}
		if item.Count <= 0 {
			item.Count = 1
		}
		u.Cart = append(u.Cart, item)
		cart = u.Cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCount sets the count on the referenced cart line and returns it.
func (s *CartService) UpdateCount(ctx context.Context, userID string, ref ItemRef, count int) (*entity.CartItem, error) {
	var updated entity.CartItem
	err := s.mutate(ctx, userID, func(u *entity.User) error {
		i := findItem(u.Cart, ref)
		if i < 0 {
			return ErrProductNotFound
		}
		u.Cart[i].Count = count
		updated = u.Cart[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove drops the referenced cart line.
func (s *CartService) Remove(ctx context.Context, userID string, ref ItemRef) error {
	return s.mutate(ctx, userID, func(u *entity.User) error {
		i := findItem(u.Cart, ref)
		if i < 0 {
			return ErrProductNotFound
		}
		u.Cart = append(u.Cart[:i], u.Cart[i+1:]...)
		return nil
	})
}

// mutate runs fn against a fresh copy of the user and replaces the cart
// conditionally on the version read. Conflicts retry with a re-read.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(*entity.User) error) error {
	for attempt := 0; attempt < cartRetries; attempt++ {
		u, err := s.getUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}
		err = s.users.ReplaceCart(ctx, userID, u.Cart, u.Version)
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return ErrCartConflict
}

func (s *CartService) getUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// findItem resolves a reference to a cart index, item id first, then the
// first line whose product image URL matches.
func findItem(cart []entity.CartItem, ref ItemRef) int {
	if ref.ItemID != "" {
		for i := range cart {
			if cart[i].ID == ref.ItemID {
				return i
			}
		}
		return -1
	}
	if ref.ImageURL != "" {
		for i := range cart {
			if cart[i].ProductImage.URL == ref.ImageURL {
				return i
			}
		}
	}
	return -1
}
