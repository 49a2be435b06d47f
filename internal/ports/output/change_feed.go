package output

import "dinnerbell/internal/domain/entities"

// Change kinds carried on the feed.
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
)

// BringItemChange is one delta on an event's bring list.
type BringItemChange struct {
	Kind string             `json:"kind"`
	Item entities.BringItem `json:"item"`
}

// ChangeFeed fans bring-item deltas out to subscribers of an event.
type ChangeFeed interface {
	Publish(eventID string, change BringItemChange)
}
