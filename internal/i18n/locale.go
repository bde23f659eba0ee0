// Package i18n holds the locale tables used by alert detection and the
// dashboard payloads, with explicit fallback to the reference locale.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the supported dashboard languages.
type Locale string

const (
	French  Locale = "fr"
	Arabic  Locale = "ar"
	English Locale = "en"
)

// Reference is the locale every table is complete for.
const Reference = French

// Supported lists locales in matcher preference order; the first entry is the
// matcher's fallback.
var Supported = []Locale{French, Arabic, English}

var matcher = language.NewMatcher([]language.Tag{
	language.French,
	language.Arabic,
	language.English,
})

// ParseLocale maps a language code ("en", "fr-TN", "AR") to a supported
// locale. The second result is false when the input did not name one.
func ParseLocale(v string) (Locale, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if i := strings.IndexAny(v, "-_"); i > 0 {
		v = v[:i]
	}
	for _, l := range Supported {
		if string(l) == v {
			return l, true
		}
	}
	return Reference, false
}

// MatchAcceptLanguage picks the best supported locale for an Accept-Language
// header value, falling back to def when nothing matches.
func MatchAcceptLanguage(header string, def Locale) Locale {
	if strings.TrimSpace(header) == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return Supported[idx]
}
