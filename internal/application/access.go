package application

import (
	"context"
	"fmt"
	"strings"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

// hostedEvent loads an event the caller must host. Co-hosts and attending
// guests get ErrForbidden; anyone else gets ErrEventNotFound, the same as
// for a missing event.
func hostedEvent(ctx context.Context, events output.EventRepository, userID, eventID string) (*entities.Event, error) {
	event, err := loadForUser(ctx, events, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostUserID == userID {
		return event, nil
	}
	seen, err := canSee(ctx, events, event.ID, userID)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, domain.ErrForbidden
	}
	return nil, domain.ErrEventNotFound
}

// staffedEvent loads an event the caller hosts or co-hosts.
func staffedEvent(ctx context.Context, events output.EventRepository, userID, eventID string) (*entities.Event, error) {
	event, err := loadForUser(ctx, events, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostUserID == userID {
		return event, nil
	}
	ok, err := isCoHost(ctx, events, event.ID, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		return event, nil
	}
	seen, err := isAttending(ctx, events, event.ID, userID)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, domain.ErrForbidden
	}
	return nil, domain.ErrEventNotFound
}

func loadForUser(ctx context.Context, events output.EventRepository, userID, eventID string) (*entities.Event, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	return events.FindByID(ctx, eventID)
}

// canSee reports whether a non-host user may already view the event.
func canSee(ctx context.Context, events output.EventRepository, eventID, userID string) (bool, error) {
	ok, err := isCoHost(ctx, events, eventID, userID)
	if err != nil || ok {
		return ok, err
	}
	return isAttending(ctx, events, eventID, userID)
}

// isCoHost reports whether userID co-hosts the event.
func isCoHost(ctx context.Context, events output.EventRepository, eventID, userID string) (bool, error) {
	cohosts, err := events.FindCoHosts(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("find cohosts: %w", err)
	}
	for _, c := range cohosts {
		if c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func isAttending(ctx context.Context, events output.EventRepository, eventID, userID string) (bool, error) {
	attending, err := events.FindAttendingByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("find attending events: %w", err)
	}
	for _, e := range attending {
		if e.ID == eventID {
			return true, nil
		}
	}
	return false, nil
}
