package repository

import (
	"context"

	"github.com/blisscet/store-api/internal/domain/entity"
)

// ProductUpdate carries the optional fields of a partial catalog update.
// Zero values mean "leave unchanged"; all provided fields are applied in a
// single set operation.
type ProductUpdate struct {
	Name     string
	Category string
	Price    *float64
	Count    *int
	Image    *entity.ImageRef
}

// ProductRepository defines catalog document store operations.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Apply(ctx context.Context, id string, upd ProductUpdate) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
