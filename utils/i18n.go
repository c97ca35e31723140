package utils

import (
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	// Bundle is the global translation bundle
	Bundle *i18n.Bundle
	// Localizer is the default localizer
	Localizer *i18n.Localizer
)

// InitI18n loads active.<lang>.toml for each language from fsys
func InitI18n(fsys fs.FS, langs []string) error {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, lang := range langs {
		path := fmt.Sprintf("active.%s.toml", lang)
		if _, err := bundle.LoadMessageFileFS(fsys, path); err != nil {
			if lang == "en" {
				return fmt.Errorf("load %s: %w", path, err)
			}
			Log.Warn("Failed to load %s locale: %v", lang, err)
		}
	}

	Bundle = bundle
	Localizer = i18n.NewLocalizer(Bundle, language.English.String())

	Log.Info("i18n initialized for %v", langs)
	return nil
}

// IsSupportedLang reports whether lang has translations loaded
func IsSupportedLang(lang string) bool {
	if Bundle == nil {
		return false
	}
	for _, tag := range Bundle.LanguageTags() {
		if tag.String() == lang {
			return true
		}
	}
	return false
}

// GetLocalizer returns a localizer for the specified language
func GetLocalizer(lang string) *i18n.Localizer {
	if lang == "" {
		lang = "en"
	}
	return i18n.NewLocalizer(Bundle, lang)
}

// T translates a message ID
func T(localizer *i18n.Localizer, messageID string) string {
	if localizer == nil {
		return messageID
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// TWithData translates a message ID with template data
func TWithData(localizer *i18n.Localizer, messageID string, data map[string]interface{}) string {
	if localizer == nil {
		return messageID
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// Translations resolves every id in ids for the client side
func Translations(localizer *i18n.Localizer, ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = T(localizer, id)
	}
	return out
}
