package application

import (
	"context"
	"fmt"

	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

// recipient is a guest reachable by push.
type recipient struct {
	Guest   entities.EventGuest
	Profile entities.Profile
}

// pushRecipients returns the guests accepted by keep whose linked profile
// holds a push token. A user appearing on several guest rows is kept once.
func pushRecipients(
	ctx context.Context,
	guestRepo output.GuestRepository,
	profileRepo output.ProfileRepository,
	eventID string,
	keep func(g *entities.EventGuest) bool,
) ([]recipient, error) {
	guests, err := guestRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("find guests: %w", err)
	}
	byUser := make(map[string]entities.EventGuest)
	ids := make([]string, 0, len(guests))
	for i := range guests {
		g := guests[i]
		if g.UserID == "" || !keep(&g) {
			continue
		}
		if _, dup := byUser[g.UserID]; dup {
			continue
		}
		byUser[g.UserID] = g
		ids = append(ids, g.UserID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	profiles, err := profileRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	out := make([]recipient, 0, len(profiles))
	for _, p := range profiles {
		if p.PushToken == "" {
			continue
		}
		out = append(out, recipient{Guest: byUser[p.ID], Profile: p})
	}
	return out, nil
}

func localeOf(p entities.Profile, translator output.Translator) string {
	if p.Locale != "" {
		return p.Locale
	}
	return translator.DefaultLocale()
}
