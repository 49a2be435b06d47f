package application

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/input"
	"dinnerbell/internal/ports/output"
)

type brokenGroups struct {
	output.GroupRepository
}

func (brokenGroups) FindByOwner(context.Context, string) ([]entities.GuestGroup, error) {
	return nil, errors.New("connection reset")
}

func TestGroupList_EmptyOnError(t *testing.T) {
	svc := NewGroupService(brokenGroups{}, zerolog.Nop(), nil)

	groups := svc.List(context.Background(), "user-1")
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.Equal(t, []entities.GuestGroup{}, env.groups.List(ctx, "user-1"))

	group, err := env.groups.Create(ctx, "user-1", " Family ")
	require.NoError(t, err)
	assert.Equal(t, "Family", group.Name)

	member, err := env.groups.AddMember(ctx, "user-1", group.ID, "Bo", " Bo@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", member.Contact)

	_, err = env.groups.AddMember(ctx, "user-2", group.ID, "Eve", "eve@example.com")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	groups := env.groups.List(ctx, "user-1")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 1)

	assert.ErrorIs(t, env.groups.Delete(ctx, "user-2", group.ID), domain.ErrForbidden)
	require.NoError(t, env.groups.Delete(ctx, "user-1", group.ID))
	assert.Empty(t, env.groups.List(ctx, "user-1"))

	_, err = env.groups.Create(ctx, "user-1", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func profilePatch(name, locale *string) input.ProfilePatch {
	return input.ProfilePatch{Name: name, Locale: locale}
}

func TestProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.Get(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	name := "Ann"
	phone := "+33 6 12 34 56 78"
	p, err := env.profiles.Update(ctx, "user-1", input.ProfilePatch{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "+33612345678", p.Phone)

	require.NoError(t, env.profiles.RegisterPushToken(ctx, "user-1", "ExponentPushToken[x]"))
	require.NoError(t, env.profiles.RegisterPushToken(ctx, "user-2", "ExponentPushToken[y]"), "creates the profile")

	locale := "fr"
	_, err = env.profiles.Update(ctx, "user-1", profilePatch(nil, &locale))
	require.NoError(t, err)

	got, err := env.profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "fr", got.Locale)
	assert.Equal(t, "ExponentPushToken[x]", got.PushToken, "profile edits keep the push token")
}
