package user

import (
	"context"

	"gradglow/internal/common"
)

type Repository interface {
	Create(ctx context.Context, u User, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, string, error)
}
