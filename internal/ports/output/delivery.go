package output

import (
	"context"
	"io"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
)

// PushData is the data payload handled by the app when a push arrives.
type PushData struct {
	Type    domain.PushType `json:"type"`
	EventID string          `json:"eventId"`
	Message string          `json:"message,omitempty"`
	// URL is the in-app route opened when the push is tapped.
	URL string `json:"url,omitempty"`
}

type PushMessage struct {
	To    string   `json:"to"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Sound string   `json:"sound,omitempty"`
	Data  PushData `json:"data"`
}

// PushSender hands messages to the push provider. It returns how many
// messages were accepted. Delivery is not tracked further.
type PushSender interface {
	Send(ctx context.Context, messages []PushMessage) (int, error)
}

type InviteEmail struct {
	To         string
	Subject    string
	HTMLBody   string
	InviteLink string
}

type Mailer interface {
	SendInvite(ctx context.Context, mail InviteEmail) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// HostNotice describes something a host should hear about.
type HostNotice struct {
	Event entities.Event
	Title string
	Body  string
}

// HostNotifier is an extra outbound channel for host notices, such as a
// chat webhook.
type HostNotifier interface {
	NotifyHost(ctx context.Context, notice HostNotice) error
}

// MediaStore keeps event cover images.
type MediaStore interface {
	UploadCover(ctx context.Context, eventID string, file io.Reader) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

type AnalyticsForwarder interface {
	Forward(ctx context.Context, payload []byte) error
}
