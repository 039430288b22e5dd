package repository

import (
	"context"
	"errors"
	"strings"

	"vuelas/api/internal/docstore"
	"vuelas/api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository stores identity records. Emails are lower-cased before every
// lookup and write; uniqueness is left to the store's unique index.
type UserRepository struct {
	store docstore.Store
	users *docstore.Collection[models.User]
}

func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{
		store: store,
		users: docstore.NewCollection[models.User](store, models.CollectionUsers),
	}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureUnique(ctx, models.CollectionUsers, "email")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := r.users.FindOne(ctx, "email", NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	if err := r.users.InsertOne(ctx, user); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, user models.User) error {
	user.ID = id
	user.Email = NormalizeEmail(user.Email)
	if err := r.users.ReplaceOne(ctx, user); err != nil {
		switch {
		case errors.Is(err, docstore.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, docstore.ErrDuplicate):
			return ErrEmailTaken
		default:
			return err
		}
	}
	return nil
}

// Delete removes the user; deleting an unknown id is not an error.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.users.DeleteOne(ctx, id); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	return nil
}
