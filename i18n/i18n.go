// Package i18n provides internationalization for h5pkit's own
// user-facing strings. It wraps gotext; translations are embedded in
// the binary and loaded once via Init().
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/h5pkit.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name.
const domain = "h5pkit"

var po *gotext.Locale

// Init initializes translations. An empty lang auto-detects from the
// environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG, in GNU gettext
// order). Call once at startup.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates a string, returning the original when no translation
// exists.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
