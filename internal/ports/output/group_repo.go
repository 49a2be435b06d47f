package output

import (
	"context"

	"dinnerbell/internal/domain/entities"
)

type GroupRepository interface {
	Create(ctx context.Context, group *entities.GuestGroup) error
	FindByID(ctx context.Context, id string) (*entities.GuestGroup, error)
	// FindByOwner returns the owner's groups with their members.
	FindByOwner(ctx context.Context, ownerUserID string) ([]entities.GuestGroup, error)
	AddMember(ctx context.Context, member *entities.GuestGroupMember) error
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*entities.Profile, error)
	FindByIDs(ctx context.Context, ids []string) ([]entities.Profile, error)
	Upsert(ctx context.Context, profile *entities.Profile) error
	SetPushToken(ctx context.Context, id, token string) error
}
