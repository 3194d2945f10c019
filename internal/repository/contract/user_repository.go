package contract

import (
	"context"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/repository/specification"
)

type UserRepository interface {
	// Upsert inserts by nip or refreshes kode_unit/display_name of an existing user.
	Upsert(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
