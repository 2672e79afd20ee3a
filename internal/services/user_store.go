package services

import (
	"context"
	"time"

	"usersadmin/internal/domain/models"
	"usersadmin/internal/query"
)

// UserReader is the read side of the user store.
type UserReader interface {
	Find(ctx context.Context, q query.Query) ([]models.User, error)
	Count(ctx context.Context, p query.Predicate) (int, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// UserWriter is the store surface needed by mutations.
type UserWriter interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, u models.User) error
	Update(ctx context.Context, id string, in models.UpdateUserInput, now time.Time) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}
