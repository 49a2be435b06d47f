// Package i18n renders push texts, invite mails and API error messages from
// the embedded English (active.en.toml) and French (active.fr.toml)
// catalogs.
package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"dinnerbell/internal/ports/output"
)

//go:embed active.*.toml
var catalogFS embed.FS

var catalogs = []string{"active.en.toml", "active.fr.toml"}

var _ output.Translator = (*Translator)(nil)

type Translator struct {
	bundle    *i18n.Bundle
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
	log       zerolog.Logger
}

// NewTranslator loads the catalogs. An unparsable defaultLocale falls back
// to English.
func NewTranslator(defaultLocale string, log zerolog.Logger) *Translator {
	log = log.With().Str("component", "i18n").Logger()
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		log.Warn().Str("locale", defaultLocale).Msg("unknown default locale, using en")
		fallback = language.English
	}
	bundle := i18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range catalogs {
		if _, err := bundle.LoadMessageFileFS(catalogFS, file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("load catalog")
		}
	}

	// the matcher's first tag is what it returns when nothing matches
	supported := []language.Tag{fallback}
	for _, tag := range bundle.LanguageTags() {
		if tag != fallback {
			supported = append(supported, tag)
		}
	}

	return &Translator{
		bundle:    bundle,
		fallback:  fallback,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		log:       log,
	}
}

// DefaultLocale is used for recipients without a locale of their own.
func (t *Translator) DefaultLocale() string {
	return t.fallback.String()
}

// Match picks the catalog locale that best serves an Accept-Language
// header, or the default locale.
func (t *Translator) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.DefaultLocale()
	}
	_, i, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.DefaultLocale()
	}
	return t.supported[i].String()
}

// T renders key in locale, then in the default locale. A key missing from
// both renders as itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	locales := make([]string, 0, 2)
	if locale != "" {
		locales = append(locales, locale)
	}
	locales = append(locales, t.DefaultLocale())

	msg, err := i18n.NewLocalizer(t.bundle, locales...).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.log.Warn().Err(err).Str("key", key).Strs("locales", locales).Msg("message missing")
		return key
	}
	return msg
}
