package jsonfile

import (
	"context"
	"strings"
	"time"

	"github.com/orderstack/orderstack/internal/core/domain"
)

// UserRepository is the file-backed credential store.
type UserRepository struct {
	coll *Collection[domain.User]
}

func NewUserRepository(path string) *UserRepository {
	return &UserRepository{coll: NewCollection[domain.User](path)}
}

// Seed populates the collection from seedPath when it is currently empty.
// A missing or unreadable seed file is not an error.
func (r *UserRepository) Seed(seedPath string) (int, error) {
	seedColl := NewCollection[domain.User](seedPath)
	seed, err := seedColl.Load()
	if err != nil || len(seed) == 0 {
		return 0, nil
	}

	seeded := 0
	err = r.coll.Update(func(users []domain.User) ([]domain.User, error) {
		if len(users) > 0 {
			return users, nil
		}
		seeded = len(seed)
		return seed, nil
	})
	return seeded, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users, err := r.coll.Load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users, err := r.coll.Load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users, err := r.coll.Load()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(users))
	for i := range users {
		u := users[i]
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.coll.Update(func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if strings.EqualFold(users[i].Email, user.Email) {
				return nil, domain.ErrEmailExists
			}
		}
		return append(users, *user), nil
	})
}

func (r *UserRepository) UpdateRoles(ctx context.Context, id string, roles []string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated domain.User
	err := r.coll.Update(func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].ID == id {
				users[i].Roles = roles
				users[i].UpdatedAt = time.Now().UTC()
				updated = users[i]
				return users, nil
			}
		}
		return nil, domain.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
