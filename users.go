package todobackend

import (
	"context"

	"github.com/vimalpatra/todo-backend/docstore"
)

const userCollection = "users"

// userStore wraps the users collection with typed lookups.
type userStore struct {
	col *docstore.Collection
}

func newUserStore(store *docstore.Store) *userStore {
	return &userStore{col: store.Collection(userCollection)}
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*User, bool, error) {
	var u User
	found, err := s.col.FindOne(ctx, docstore.Filter{"email": email}, &u)
	if err != nil || !found {
		return nil, false, err
	}
	return &u, true, nil
}

func (s *userStore) FindByID(ctx context.Context, id string) (*User, bool, error) {
	var u User
	found, err := s.col.FindOne(ctx, docstore.Filter{"_id": id}, &u)
	if err != nil || !found {
		return nil, false, err
	}
	return &u, true, nil
}

// Save writes the whole user document, sessions included.
func (s *userStore) Save(ctx context.Context, u *User) error {
	return s.col.Save(ctx, u.ID, u)
}
