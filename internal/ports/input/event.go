package input

import (
	"context"
	"io"
	"time"

	"dinnerbell/internal/domain/entities"
)

type MenuItemDraft struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	DietaryTags []string `json:"dietary_tags" yaml:"dietary_tags"`
}

type MenuSectionDraft struct {
	Title string          `json:"title" yaml:"title"`
	Items []MenuItemDraft `json:"items" yaml:"items"`
}

type ScheduleBlockDraft struct {
	Title    string    `json:"title" yaml:"title"`
	StartsAt time.Time `json:"starts_at" yaml:"starts_at"`
	Notes    string    `json:"notes" yaml:"notes"`
}

// EventDraft is the host's multi-step creation form.
type EventDraft struct {
	Title        string               `json:"title" yaml:"title"`
	Description  string               `json:"description" yaml:"description"`
	StartTime    time.Time            `json:"start_time" yaml:"start_time"`
	BellTime     time.Time            `json:"bell_time" yaml:"bell_time"`
	EndTime      time.Time            `json:"end_time" yaml:"end_time"`
	Timezone     string               `json:"timezone" yaml:"timezone"`
	AddressLine1 string               `json:"address_line1" yaml:"address_line1"`
	AddressLine2 string               `json:"address_line2" yaml:"address_line2"`
	City         string               `json:"city" yaml:"city"`
	State        string               `json:"state" yaml:"state"`
	PostalCode   string               `json:"postal_code" yaml:"postal_code"`
	IsPublic     bool                 `json:"is_public" yaml:"is_public"`
	Capacity     int                  `json:"capacity" yaml:"capacity"`
	Menu         []MenuSectionDraft   `json:"menu" yaml:"menu"`
	BringItems   []BringItemDraft     `json:"bring_items" yaml:"bring_items"`
	Schedule     []ScheduleBlockDraft `json:"schedule" yaml:"schedule"`
}

// EventPatch holds the host-editable scalar fields; nil means unchanged.
type EventPatch struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	StartTime    *time.Time `json:"start_time"`
	BellTime     *time.Time `json:"bell_time"`
	EndTime      *time.Time `json:"end_time"`
	Timezone     *string    `json:"timezone"`
	AddressLine1 *string    `json:"address_line1"`
	AddressLine2 *string    `json:"address_line2"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	PostalCode   *string    `json:"postal_code"`
	IsPublic     *bool      `json:"is_public"`
	Capacity     *int       `json:"capacity"`
}

type EventUseCase interface {
	Create(ctx context.Context, userID string, draft EventDraft) (*entities.EventView, error)
	Update(ctx context.Context, userID, eventID string, patch EventPatch) (*entities.Event, error)
	Cancel(ctx context.Context, userID, eventID string) error
	Get(ctx context.Context, userID, eventID string) (*entities.EventView, error)
	GetForGuest(ctx context.Context, guestID string) (*entities.EventView, error)
	List(ctx context.Context, userID string) (*entities.EventList, error)
	AddCoHost(ctx context.Context, userID, eventID, cohostUserID string) error
	SetCover(ctx context.Context, userID, eventID string, file io.Reader) (*entities.Event, error)
}
