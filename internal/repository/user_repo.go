package repository

import (
	"context"
	"strings"

	"unitdrive/internal/common"
	"unitdrive/internal/docstore"
	"unitdrive/internal/model"
)

// UsersDocPath is the fixed location of the users document.
const UsersDocPath = "System/users.json"

// UserRepository defines data access for the shared users document.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	SaveAll(ctx context.Context, users []model.User) error
	// Reset drops the remembered document version after a conflicting save.
	Reset()
}

type userRepository struct {
	store *docstore.Store
}

// NewUserRepository returns a new instance of UserRepository.
func NewUserRepository(store *docstore.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	return docstore.LoadCollection[model.User](ctx, r.store, UsersDocPath)
}

// GetByUsername matches case-insensitively; usernames are unique under that
// comparison.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepository) SaveAll(ctx context.Context, users []model.User) error {
	return docstore.SaveCollection(ctx, r.store, UsersDocPath, users)
}

func (r *userRepository) Reset() {
	r.store.Forget(UsersDocPath)
}
