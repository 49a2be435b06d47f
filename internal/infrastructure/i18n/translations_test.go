package i18n

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTranslator(t *testing.T) {
	tr := NewTranslator("en", zerolog.Nop())

	t.Run("default locale", func(t *testing.T) {
		assert.Equal(t, "en", tr.DefaultLocale())
	})

	t.Run("renders template data", func(t *testing.T) {
		got := tr.T("en", "push.bell.body", map[string]any{"Event": "Harvest supper"})
		assert.Contains(t, got, "Harvest supper")
	})

	t.Run("french differs from english", func(t *testing.T) {
		assert.NotEqual(t, tr.T("en", "error.forbidden", nil), tr.T("fr", "error.forbidden", nil))
	})

	t.Run("unknown locale falls back", func(t *testing.T) {
		assert.Equal(t, tr.T("en", "error.forbidden", nil), tr.T("de", "error.forbidden", nil))
	})

	t.Run("unknown key returns key", func(t *testing.T) {
		assert.Equal(t, "nope.missing", tr.T("en", "nope.missing", nil))
	})

	t.Run("bad default locale", func(t *testing.T) {
		assert.Equal(t, "en", NewTranslator("??", zerolog.Nop()).DefaultLocale())
	})
}

func TestTranslator_EveryErrorCodeHasMessage(t *testing.T) {
	tr := NewTranslator("en", zerolog.Nop())
	codes := []string{
		"event_not_found", "invite_invalid", "guest_not_found", "item_not_found",
		"item_not_claimable", "invalid_transition", "group_not_found", "profile_not_found",
		"forbidden", "unauthenticated", "validation", "event_cancelled",
		"datetime_in_past", "channel_unavailable", "item_already_claimed", "internal",
	}
	for _, locale := range []string{"en", "fr"} {
		for _, code := range codes {
			key := "error." + code
			assert.NotEqual(t, key, tr.T(locale, key, nil), "%s %s", locale, key)
		}
	}
}

func TestTranslator_Match(t *testing.T) {
	tr := NewTranslator("en", zerolog.Nop())
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR,fr;q=0.9", "fr"},
		{"de", "en"},
		{"de-DE,fr;q=0.5", "fr"},
		{"not a header;;;", "en"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tr.Match(tt.header), "header %q", tt.header)
	}
}
