package output

import (
	"context"

	"dinnerbell/internal/domain/entities"
)

// EventRepository stores events and the children created with them.
type EventRepository interface {
	// Create inserts the event with its menu, bring items and schedule in one
	// transaction.
	Create(ctx context.Context, rows *entities.EventRows) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	FindByHostUserID(ctx context.Context, userID string) ([]entities.Event, error)
	// FindAttendingByUserID returns events where the user is a going or maybe
	// guest.
	FindAttendingByUserID(ctx context.Context, userID string) ([]entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	Cancel(ctx context.Context, id string) error
	SetCover(ctx context.Context, id, url, publicID string) error
	FindMenu(ctx context.Context, eventID string) ([]entities.MenuSection, []entities.MenuItem, error)
	FindSchedule(ctx context.Context, eventID string) ([]entities.ScheduleBlock, error)
	AddCoHost(ctx context.Context, cohost *entities.CoHost) error
	FindCoHosts(ctx context.Context, eventID string) ([]entities.CoHost, error)
	// LoadByGuestID reads everything the guest can see in one round trip.
	LoadByGuestID(ctx context.Context, guestID string) (*entities.EventRows, error)
}
