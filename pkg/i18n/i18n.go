// Package i18n loads the embedded message catalogs and renders user-facing text.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	MsgErrorGeneric     = "ErrorGeneric"
	MsgErrorBusy        = "ErrorBusy"
	MsgSaleCompleted    = "SaleCompleted"
	MsgSaleStockWarning = "SaleStockWarning"
	MsgSaleRejected     = "SaleRejected"
)

type Translator struct {
	bundle        *goi18n.Bundle
	defaultLocale string
}

// New loads every embedded catalog. defaultLocale is used when a caller sends no
// preference or only unsupported ones.
func New(defaultLocale string) (*Translator, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}

	return &Translator{bundle: bundle, defaultLocale: tag.String()}, nil
}

// T renders messageID for the first supported language in langs (Accept-Language
// values or plain tags). Unknown ids render as the id itself.
func (t *Translator) T(messageID string, data map[string]any, langs ...string) string {
	langs = append(langs, t.defaultLocale)
	loc := goi18n.NewLocalizer(t.bundle, langs...)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: messageID, TemplateData: data})
	if err != nil {
		return messageID
	}
	return msg
}

// Languages lists the locales with a loaded catalog.
func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}
