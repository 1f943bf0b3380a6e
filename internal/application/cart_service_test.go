package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/domain/repository"
)

// fakeUserRepo keeps a single user in memory and mimics the conditional
// cart replace, including injectable conflicts.
type fakeUserRepo struct {
	user *entity.User

	replaceErrs  []error // shifted off per ReplaceCart call, nil means success
	replaceCalls int
}

func newFakeUserRepo(cart []entity.CartItem) *fakeUserRepo {
	return &fakeUserRepo{
		user: &entity.User{
			ID:       primitive.NewObjectID(),
			Username: "shopper",
			Email:    "shopper@example.com",
			Cart:     cart,
		},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if f.user == nil || f.user.ID.Hex() != id {
		return nil, repository.ErrNotFound
	}
	cp := *f.user
	cp.Cart = append([]entity.CartItem(nil), f.user.Cart...)
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]entity.User, error) { return nil, nil }

func (f *fakeUserRepo) ApplyProfile(ctx context.Context, id string, upd repository.ProfileUpdate) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, hash string) error { return nil }

func (f *fakeUserRepo) SetAdmin(ctx context.Context, id string, admin bool) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ReplaceCart(ctx context.Context, id string, cart []entity.CartItem, version int64) error {
	f.replaceCalls++
	if len(f.replaceErrs) > 0 {
		err := f.replaceErrs[0]
		f.replaceErrs = f.replaceErrs[1:]
		if err != nil {
			return err
		}
	}
	if f.user == nil || f.user.ID.Hex() != id {
		return repository.ErrNotFound
	}
	if f.user.Version != version {
		return repository.ErrVersionConflict
	}
	f.user.Cart = cart
	f.user.Version++
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

func lamp() entity.Product {
	return entity.Product{
		ProductImage: entity.ImageRef{ID: "product-images/lamp", URL: "https://img.example.com/lamp.png"},
		Name:         "Desk Lamp",
		Category:     "office",
		Price:        24.99,
		Count:        2,
	}
}

func TestAddAssignsItemIDAndAppends(t *testing.T) {
	repo := newFakeUserRepo(nil)
	svc := NewCartService(repo)

	cart, err := svc.Add(context.Background(), repo.user.ID.Hex(), lamp())
	require.NoError(t, err)
	require.Len(t, cart, 1)

	item := cart[0]
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Desk Lamp", item.Name)
	assert.Equal(t, 2, item.Count)
	assert.Equal(t, int64(1), repo.user.Version)

	// Same product again is a second line with its own id
	cart, err = svc.Add(context.Background(), repo.user.ID.Hex(), lamp())
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.NotEqual(t, cart[0].ID, cart[1].ID)
}

func TestAddDefaultsCountToOne(t *testing.T) {
	repo := newFakeUserRepo(nil)
	svc := NewCartService(repo)

	p := lamp()
	p.Count = 0
	cart, err := svc.Add(context.Background(), repo.user.ID.Hex(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, cart[0].Count)
}

func TestUpdateCountByImageURL(t *testing.T) {
	repo := newFakeUserRepo([]entity.CartItem{{
		ID:           "item-1",
		ProductImage: entity.ImageRef{URL: "https://img.example.com/lamp.png"},
		Name:         "Desk Lamp",
		Count:        1,
	}})
	svc := NewCartService(repo)

	item, err := svc.UpdateCount(context.Background(), repo.user.ID.Hex(),
		ItemRef{ImageURL: "https://img.example.com/lamp.png"}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Count)
	assert.Equal(t, 5, repo.user.Cart[0].Count)
}

func TestUpdateCountPrefersItemID(t *testing.T) {
	sharedURL := "https://img.example.com/lamp.png"
	repo := newFakeUserRepo([]entity.CartItem{
		{ID: "item-1", ProductImage: entity.ImageRef{URL: sharedURL}, Count: 1},
		{ID: "item-2", ProductImage: entity.ImageRef{URL: sharedURL}, Count: 1},
	})
	svc := NewCartService(repo)

	item, err := svc.UpdateCount(context.Background(), repo.user.ID.Hex(),
		ItemRef{ItemID: "item-2", ImageURL: sharedURL}, 3)
	require.NoError(t, err)
	assert.Equal(t, "item-2", item.ID)
	assert.Equal(t, 1, repo.user.Cart[0].Count)
	assert.Equal(t, 3, repo.user.Cart[1].Count)
}

func TestUpdateCountUnknownItem(t *testing.T) {
	repo := newFakeUserRepo([]entity.CartItem{{ID: "item-1", Count: 1}})
	svc := NewCartService(repo)

	_, err := svc.UpdateCount(context.Background(), repo.user.ID.Hex(),
		ItemRef{ImageURL: "https://img.example.com/other.png"}, 5)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 1, repo.user.Cart[0].Count)
	assert.Equal(t, int64(0), repo.user.Version)
}

func TestRemoveOnlyItemEmptiesCart(t *testing.T) {
	repo := newFakeUserRepo([]entity.CartItem{{
		ID:           "item-1",
		ProductImage: entity.ImageRef{URL: "https://img.example.com/lamp.png"},
	}})
	svc := NewCartService(repo)

	err := svc.Remove(context.Background(), repo.user.ID.Hex(), ItemRef{ItemID: "item-1"})
	require.NoError(t, err)
	assert.Empty(t, repo.user.Cart)
}

func TestRemoveFromEmptyCart(t *testing.T) {
	repo := newFakeUserRepo(nil)
	svc := NewCartService(repo)

	err := svc.Remove(context.Background(), repo.user.ID.Hex(), ItemRef{ItemID: "item-1"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestConflictRetriesThenSucceeds(t *testing.T) {
	repo := newFakeUserRepo(nil)
	repo.replaceErrs = []error{repository.ErrVersionConflict, repository.ErrVersionConflict, nil}
	svc := NewCartService(repo)

	cart, err := svc.Add(context.Background(), repo.user.ID.Hex(), lamp())
	require.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Equal(t, 3, repo.replaceCalls)
}

func TestConflictExhaustsRetries(t *testing.T) {
	repo := newFakeUserRepo(nil)
	repo.replaceErrs = []error{
		repository.ErrVersionConflict,
		repository.ErrVersionConflict,
		repository.ErrVersionConflict,
	}
	svc := NewCartService(repo)

	_, err := svc.Add(context.Background(), repo.user.ID.Hex(), lamp())
	assert.ErrorIs(t, err, ErrCartConflict)
	assert.Equal(t, 3, repo.replaceCalls)
}

func TestCartUnknownUser(t *testing.T) {
	repo := newFakeUserRepo(nil)
	svc := NewCartService(repo)

	_, err := svc.Items(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
