package entities

// EventView is one event with all of its children, ready to render.
// Collections are never nil.
type EventView struct {
	Event      Event           `json:"event"`
	Menu       []MenuSection   `json:"menu"`
	BringItems []BringItem     `json:"bring_items"`
	Schedule   []ScheduleBlock `json:"schedule"`
	Guests     []EventGuest    `json:"guests"`
	CoHosts    []CoHost        `json:"cohosts"`
}

// EventRows are the raw rows of an event before assembly.
type EventRows struct {
	Event      Event
	Sections   []MenuSection
	Items      []MenuItem
	BringItems []BringItem
	Schedule   []ScheduleBlock
	Guests     []EventGuest
	CoHosts    []CoHost
}

// Assemble normalizes raw rows into a view.
func (r EventRows) Assemble() *EventView {
	v := &EventView{
		Event:      r.Event,
		Menu:       AssembleMenu(r.Sections, r.Items),
		BringItems: r.BringItems,
		Schedule:   r.Schedule,
		Guests:     r.Guests,
		CoHosts:    r.CoHosts,
	}
	if v.BringItems == nil {
		v.BringItems = []BringItem{}
	}
	if v.Schedule == nil {
		v.Schedule = []ScheduleBlock{}
	}
	if v.Guests == nil {
		v.Guests = []EventGuest{}
	}
	if v.CoHosts == nil {
		v.CoHosts = []CoHost{}
	}
	return v
}

// InviteSnapshot is the read-only view handed out for a valid invite.
// Guests is only filled by the full variant, with contacts stripped.
type InviteSnapshot struct {
	Event      Event         `json:"event"`
	Menu       []MenuSection `json:"menu"`
	BringItems []BringItem   `json:"bring_items"`
	Guests     []EventGuest  `json:"guests,omitempty"`
}

// EventList splits a user's events around now.
type EventList struct {
	Upcoming []Event `json:"upcoming"`
	Past     []Event `json:"past"`
}
