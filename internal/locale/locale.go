// Package locale resolves the language-dependent search keyword via
// go-i18n message bundles embedded in the binary. Unknown language tags
// fall back deterministically to English; a missing message never
// surfaces as an error to callers.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator owns the i18n bundle and per-language localizers.
type Translator struct {
	bundle     *i18n.Bundle
	localizers map[string]*i18n.Localizer
	supported  []string
}

// New loads every embedded active.<lang>.json file into a bundle rooted
// at English and prepares one localizer per detected language.
func New() (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyError, err,
		)
		return nil, err
	}

	var detected []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detected = append(detected, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	localizers := make(map[string]*i18n.Localizer, len(detected))
	for _, langCode := range detected {
		// The trailing default makes the per-language fallback explicit
		// regardless of tag matching.
		localizers[langCode] = i18n.NewLocalizer(bundle, langCode, config.DefaultLanguage)
	}

	return &Translator{
		bundle:     bundle,
		localizers: localizers,
		supported:  detected,
	}, nil
}

// Supported returns the language codes detected at load time.
func (t *Translator) Supported() []string {
	return t.supported
}

// Keyword returns the search keyword for the given language tag. An
// unknown tag or missing translation resolves through the default
// language; an empty result signals the caller to use its own fallback.
func (t *Translator) Keyword(lang string) string {
	loc, ok := t.localizers[lang]
	if !ok {
		// Unrecognized tag: build a throwaway localizer so region
		// variants like "de-AT" still match their base language.
		loc = i18n.NewLocalizer(t.bundle, lang, config.DefaultLanguage)
	}

	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: config.TKeySearchKeyword})
	if err != nil {
		slog.Debug(config.MsgKeywordMissing,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyLang, lang,
			config.LogKeyError, err,
		)
		return ""
	}
	return msg
}
