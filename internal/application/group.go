package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

type GroupService struct {
	groupRepo output.GroupRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewGroupService(groupRepo output.GroupRepository, log zerolog.Logger, now func() time.Time) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		log:       log.With().Str("component", "group").Logger(),
		now:       now,
	}
}

// List returns the user's groups with members. Failures are logged and
// answered with an empty list.
func (s *GroupService) List(ctx context.Context, userID string) []entities.GuestGroup {
	if strings.TrimSpace(userID) == "" {
		return []entities.GuestGroup{}
	}
	groups, err := s.groupRepo.FindByOwner(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("list groups")
		return []entities.GuestGroup{}
	}
	if groups == nil {
		return []entities.GuestGroup{}
	}
	for i := range groups {
		if groups[i].Members == nil {
			groups[i].Members = []entities.GuestGroupMember{}
		}
	}
	return groups
}

func (s *GroupService) Create(ctx context.Context, userID, name string) (*entities.GuestGroup, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrValidation)
	}
	group := &entities.GuestGroup{
		ID:          uuid.Must(uuid.NewV7()).String(),
		OwnerUserID: userID,
		Name:        name,
		Members:     []entities.GuestGroupMember{},
		CreatedAt:   s.now(),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func (s *GroupService) AddMember(ctx context.Context, userID, groupID, name, contact string) (*entities.GuestGroupMember, error) {
	group, err := s.ownedGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: member name is required", domain.ErrValidation)
	}
	contact, err = NormalizeContact(contact)
	if err != nil {
		return nil, err
	}
	member := &entities.GuestGroupMember{
		ID:      uuid.Must(uuid.NewV7()).String(),
		GroupID: group.ID,
		Name:    name,
		Contact: contact,
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return member, nil
}

func (s *GroupService) Delete(ctx context.Context, userID, groupID string) error {
	group, err := s.ownedGroup(ctx, userID, groupID)
	if err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, group.ID)
}

func (s *GroupService) ownedGroup(ctx context.Context, userID, groupID string) (*entities.GuestGroup, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerUserID != userID {
		return nil, domain.ErrForbidden
	}
	return group, nil
}
