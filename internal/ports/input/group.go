package input

import (
	"context"

	"dinnerbell/internal/domain/entities"
)

type GroupUseCase interface {
	// List never fails: a storage error yields an empty list.
	List(ctx context.Context, userID string) []entities.GuestGroup
	Create(ctx context.Context, userID, name string) (*entities.GuestGroup, error)
	AddMember(ctx context.Context, userID, groupID, name, contact string) (*entities.GuestGroupMember, error)
	Delete(ctx context.Context, userID, groupID string) error
}

type ProfilePatch struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	Locale    *string `json:"locale"`
}

type ProfileUseCase interface {
	Get(ctx context.Context, userID string) (*entities.Profile, error)
	Update(ctx context.Context, userID string, patch ProfilePatch) (*entities.Profile, error)
	RegisterPushToken(ctx context.Context, userID, token string) error
}
