package domain

// RSVPStatus is a guest's stated attendance intent.
type RSVPStatus string

const (
	RSVPGoing RSVPStatus = "going"
	RSVPMaybe RSVPStatus = "maybe"
	RSVPCant  RSVPStatus = "cant"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPCant:
		return true
	}
	return false
}

// BringCategory groups bring items on the list.
type BringCategory string

const (
	CategoryDrink    BringCategory = "drink"
	CategorySide     BringCategory = "side"
	CategoryDessert  BringCategory = "dessert"
	CategorySupplies BringCategory = "supplies"
	CategoryOther    BringCategory = "other"
)

func (c BringCategory) Valid() bool {
	switch c {
	case CategoryDrink, CategorySide, CategoryDessert, CategorySupplies, CategoryOther:
		return true
	}
	return false
}

// BringStatus only moves forward: unclaimed -> claimed -> provided.
type BringStatus string

const (
	BringUnclaimed BringStatus = "unclaimed"
	BringClaimed   BringStatus = "claimed"
	BringProvided  BringStatus = "provided"
)

// NotificationType identifies a scheduled notification row.
type NotificationType string

const (
	NotifyReminder2h  NotificationType = "reminder_2h"
	NotifyReminder30m NotificationType = "reminder_30m"
	NotifyBell        NotificationType = "bell"
)

// PushType is the "type" field carried in push data payloads.
type PushType string

const (
	PushBellRing       PushType = "bell_ring"
	PushInviteReceived PushType = "invite_received"
	PushReminder       PushType = "reminder"
)

// BellSound is the sound identifier sent with bell_ring pushes.
const BellSound = "bell.wav"
