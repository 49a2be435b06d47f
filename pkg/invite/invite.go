// Package invite generates invite tokens and builds invite links.
package invite

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// TokenLength is the length of generated invite tokens.
const TokenLength = 24

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewToken returns a random mixed-case alphanumeric token.
func NewToken() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(TokenLength)
	for i := 0; i < TokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("invite: generate token: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// TokenMatches compares a presented token with the stored one in constant
// time. An empty stored token never matches.
func TokenMatches(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// Link builds https://<base>/invite/{eventID}?token={token}.
func Link(baseURL, eventID, token string) string {
	base := strings.TrimRight(baseURL, "/")
	return fmt.Sprintf("%s/invite/%s?token=%s", base, url.PathEscape(eventID), url.QueryEscape(token))
}

// DeepLink is the in-app route for an invite.
func DeepLink(eventID, token string) string {
	return fmt.Sprintf("invite/%s?token=%s", eventID, url.QueryEscape(token))
}

// EventDeepLink is the in-app route for an event page.
func EventDeepLink(eventID string) string {
	return "event/" + eventID
}

// BellDeepLink opens the bell screen of an event.
func BellDeepLink(eventID string) string {
	return "event/" + eventID + "/bell"
}

// QRCode renders link as a square PNG of size pixels.
func QRCode(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("invite: encode qr: %w", err)
	}
	return png, nil
}
