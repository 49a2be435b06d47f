package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrInviteInvalid      = errors.New("invite invalid or expired")
	ErrGuestNotFound      = errors.New("guest not found")
	ErrItemNotFound       = errors.New("bring item not found")
	ErrItemNotClaimable   = errors.New("bring item cannot be claimed")
	ErrInvalidTransition  = errors.New("bring item status cannot change this way")
	ErrGroupNotFound      = errors.New("group not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrForbidden          = errors.New("only the host can perform this action")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrValidation         = errors.New("invalid input")
	ErrEventCancelled     = errors.New("event is cancelled")
	ErrDateTimeInPast     = errors.New("bell time must be in the future")
	ErrChannelUnavailable = errors.New("delivery channel not configured")
)

// codes is ordered; Code reports the first sentinel an error wraps.
var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthenticated, "unauthenticated"},
	{ErrValidation, "validation"},
	{ErrDateTimeInPast, "datetime_in_past"},
	{ErrInviteInvalid, "invite_invalid"},
	{ErrEventNotFound, "event_not_found"},
	{ErrGuestNotFound, "guest_not_found"},
	{ErrItemNotFound, "item_not_found"},
	{ErrGroupNotFound, "group_not_found"},
	{ErrProfileNotFound, "profile_not_found"},
	{ErrForbidden, "forbidden"},
	{ErrEventCancelled, "event_cancelled"},
	{ErrItemNotClaimable, "item_not_claimable"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrChannelUnavailable, "channel_unavailable"},
}

// Code returns the stable code of the domain error wrapped in err, or "" when
// err does not wrap one.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
