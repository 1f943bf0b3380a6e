package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/domain/repository"
	"github.com/blisscet/store-api/pkg/helpers"
	"github.com/blisscet/store-api/pkg/mailer"
)

var (
	ErrEmailTaken         = errors.New("a user with that email or username already exists")
	ErrNotRegistered      = errors.New("user is not registered")
	ErrInvalidCredentials = errors.New("wrong password")
	ErrUserNotFound       = errors.New("no user found")
)

// EmailPublisher queues outbound email jobs. Nil-able so the API keeps
// working when the broker is down.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, v any) error
}

// RegisterInput carries validated registration data. Avatar is optional,
// missing avatars fall back to the stock image.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Avatar    *entity.ImageRef
}

// AccountService owns user lifecycle: registration, login, profile and
// admin management. Token revocation marks live in Redis keyed by user id.
type AccountService struct {
	users  repository.UserRepository
	jwt    *helpers.JWTManager
	rdb    *redis.Client
	emails EmailPublisher
	log    *logrus.Logger
}

func NewAccountService(users repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, emails EmailPublisher, log *logrus.Logger) *AccountService {
	return &AccountService{users: users, jwt: jwt, rdb: rdb, emails: emails, log: log}
}

// Register creates the user and returns it together with a fresh token.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	hashed, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	avatar := entity.DefaultAvatar()
	if in.Avatar != nil {
		avatar = *in.Avatar
	}

	u := &entity.User{
		Username:   in.Username,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Password:   hashed,
		UserAvatar: avatar,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.jwt.Generate(u)
	if err != nil {
		return nil, "", err
	}

	s.queueWelcomeEmail(ctx, u)
	return u, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNotRegistered
		}
		return nil, "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, _, err := s.jwt.Generate(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AccountService) Profile(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies the provided fields and returns the updated user.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, upd repository.ProfileUpdate) (*entity.User, error) {
	u, err := s.users.ApplyProfile(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// ChangePassword rehashes and stores the new password, then revokes every
// token issued before now so stolen tokens stop working.
func (s *AccountService) ChangePassword(ctx context.Context, id, newPassword string) error {
	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hashed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.revokeTokens(ctx, id)
	return nil
}

// DeleteAccount removes the user and revokes outstanding tokens.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.revokeTokens(ctx, id)
	return nil
}

// ListAdmins returns every user holding the admin flag.
func (s *AccountService) ListAdmins(ctx context.Context) ([]entity.User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	admins := make([]entity.User, 0, len(all))
	for _, u := range all {
		if u.Admin {
			admins = append(admins, u)
		}
	}
	return admins, nil
}

// CreateAdmin registers a user with the admin flag forced on. No welcome
// email, dashboard-created accounts are operator owned.
func (s *AccountService) CreateAdmin(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hashed, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	avatar := entity.DefaultAvatar()
	if in.Avatar != nil {
		avatar = *in.Avatar
	}
	u := &entity.User{
		Username:   in.Username,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Password:   hashed,
		UserAvatar: avatar,
		Admin:      true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// SetAdmin flips the admin flag. Demotion revokes the user's tokens so a
// previously issued admin token cannot keep reaching the dashboard.
func (s *AccountService) SetAdmin(ctx context.Context, id string, admin bool) (*entity.User, error) {
	u, err := s.users.SetAdmin(ctx, id, admin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !admin {
		s.revokeTokens(ctx, id)
	}
	return u, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.users.List(ctx)
}

func (s *AccountService) queueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.emails == nil {
		return
	}
	job := mailer.WelcomeEmail(u.Email, u.FirstName)
	if err := s.emails.PublishJSON(ctx, job); err != nil && s.log != nil {
		s.log.WithError(err).WithField("email", u.Email).Warn("failed to queue welcome email")
	}
}

// revokeTokens stamps the user's revocation mark. Tokens issued at or
// before the mark are rejected until the mark expires with the token TTL.
func (s *AccountService) revokeTokens(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	mark := time.Now().UTC().Format(helpers.RevocationFormat)
	if err := s.rdb.Set(ctx, helpers.KeyRevokedTokens(id), mark, s.jwt.TTL).Err(); err != nil && s.log != nil {
		s.log.WithError(err).WithField("user_id", id).Warn("failed to write token revocation mark")
	}
}
