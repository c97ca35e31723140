// Package locales embeds the translation files for the UI and API errors.
package locales

import "embed"

// FS holds active.<lang>.toml for every supported language
//
//go:embed *.toml
var FS embed.FS

// Supported lists the languages with a translation file
var Supported = []string{"en", "ja"}
