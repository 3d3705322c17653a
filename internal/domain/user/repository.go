package user

import "context"

// UserRepository - interface for the users table
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	ListActiveByRole(ctx context.Context, role Role) ([]User, error)
	Update(ctx context.Context, req UpdateUserRequest) error
}
