package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/domain/repository"
	"github.com/blisscet/store-api/pkg/helpers"
)

// fakeAccountRepo implements UserRepository with overridable functions.
type fakeAccountRepo struct {
	CreateFn         func(ctx context.Context, u *entity.User) error
	GetByEmailFn     func(ctx context.Context, email string) (*entity.User, error)
	SetAdminFn       func(ctx context.Context, id string, admin bool) (*entity.User, error)
	UpdatePasswordFn func(ctx context.Context, id, hash string) error
	DeleteFn         func(ctx context.Context, id string) error
}

func (f *fakeAccountRepo) Create(ctx context.Context, u *entity.User) error {
	return f.CreateFn(ctx, u)
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.GetByEmailFn(ctx, email)
}

func (f *fakeAccountRepo) List(ctx context.Context) ([]entity.User, error) { return nil, nil }

func (f *fakeAccountRepo) ApplyProfile(ctx context.Context, id string, upd repository.ProfileUpdate) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if f.UpdatePasswordFn != nil {
		return f.UpdatePasswordFn(ctx, id, hash)
	}
	return nil
}

func (f *fakeAccountRepo) SetAdmin(ctx context.Context, id string, admin bool) (*entity.User, error) {
	return f.SetAdminFn(ctx, id, admin)
}

func (f *fakeAccountRepo) ReplaceCart(ctx context.Context, id string, cart []entity.CartItem, version int64) error {
	return nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id string) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-secret", time.Hour)
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username:  "shopper",
		FirstName: "Sam",
		LastName:  "Shopper",
		Email:     "sam@example.com",
		Password:  "password123",
	}
}

func TestRegisterHashesPasswordAndDefaultsAvatar(t *testing.T) {
	var stored *entity.User
	repo := &fakeAccountRepo{
		CreateFn: func(ctx context.Context, u *entity.User) error {
			u.ID = primitive.NewObjectID()
			stored = u
			return nil
		},
	}
	svc := NewAccountService(repo, testJWT(), nil, nil, nil)

	u, token, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEqual(t, "password123", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "password123"))
	assert.Equal(t, entity.DefaultAvatarURL, stored.UserAvatar.URL)
	assert.False(t, u.Admin)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeAccountRepo{
		CreateFn: func(ctx context.Context, u *entity.User) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewAccountService(repo, testJWT(), nil, nil, nil)

	_, _, err := svc.Register(context.Background(), registerInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &fakeAccountRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*entity.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAccountService(repo, testJWT(), nil, nil, nil)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := helpers.HashPassword("password123")
	require.NoError(t, err)
	repo := &fakeAccountRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*entity.User, error) {
			return &entity.User{ID: primitive.NewObjectID(), Email: email, Password: hash}, nil
		},
	}
	svc := NewAccountService(repo, testJWT(), nil, nil, nil)

	_, _, err = svc.Login(context.Background(), "sam@example.com", "nottherightone")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginTokenCarriesAdminFlag(t *testing.T) {
	hash, err := helpers.HashPassword("password123")
	require.NoError(t, err)
	uid := primitive.NewObjectID()
	repo := &fakeAccountRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*entity.User, error) {
			return &entity.User{ID: uid, Email: email, Password: hash, Admin: true}, nil
		},
	}
	jwt := testJWT()
	svc := NewAccountService(repo, jwt, nil, nil, nil)

	_, token, err := svc.Login(context.Background(), "sam@example.com", "password123")
	require.NoError(t, err)

	claims, err := jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uid.Hex(), claims.UserID)
	assert.True(t, claims.Admin)
}

func TestSetAdminUnknownUser(t *testing.T) {
	repo := &fakeAccountRepo{
		SetAdminFn: func(ctx context.Context, id string, admin bool) (*entity.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAccountService(repo, testJWT(), nil, nil, nil)

	_, err := svc.SetAdmin(context.Background(), primitive.NewObjectID().Hex(), true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	var storedHash string
	repo := &fakeAccountRepo{
		UpdatePasswordFn: func(ctx context.Context, id, hash string) error {
			storedHash = hash
			return nil
		},
	}
	svc := NewAccountService(repo, testJWT(), nil, nil, nil)

	err := svc.ChangePassword(context.Background(), primitive.NewObjectID().Hex(), "freshpass456")
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(storedHash, "freshpass456"))
}

func TestCreateAdminForcesAdminFlag(t *testing.T) {
	repo := &fakeAccountRepo{
		CreateFn: func(ctx context.Context, u *entity.User) error {
			u.ID = primitive.NewObjectID()
			return nil
		},
	}
	svc := NewAccountService(repo, testJWT(), nil, nil, nil)

	u, err := svc.CreateAdmin(context.Background(), registerInput())
	require.NoError(t, err)
	assert.True(t, u.Admin)
}
