// Package langmeta provides a shared language metadata registry
// (English and native names) used by the CLI and for wording the
// translation prompt sent to AI providers.
package langmeta

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Meta describes language display metadata.
type Meta struct {
	Name   string // English name
	Native string // native name
}

// Registry contains canonical language metadata keyed by BCP-47 code.
// Variants like de_AT or pt-br are resolved in Resolve() via
// normalization and base-language fallback.
var Registry = map[string]Meta{
	"ar":    {Name: "Arabic", Native: "العربية"},
	"bg":    {Name: "Bulgarian", Native: "Български"},
	"bs":    {Name: "Bosnian", Native: "Bosanski"},
	"ca":    {Name: "Catalan", Native: "Català"},
	"cs":    {Name: "Czech", Native: "Čeština"},
	"da":    {Name: "Danish", Native: "Dansk"},
	"de":    {Name: "German", Native: "Deutsch"},
	"el":    {Name: "Greek", Native: "Ελληνικά"},
	"en":    {Name: "English", Native: "English"},
	"en-GB": {Name: "English (UK)", Native: "English (UK)"},
	"es":    {Name: "Spanish", Native: "Español"},
	"es-MX": {Name: "Spanish (Mexico)", Native: "Español (México)"},
	"et":    {Name: "Estonian", Native: "Eesti"},
	"eu":    {Name: "Basque", Native: "Euskara"},
	"fa":    {Name: "Persian", Native: "فارسی"},
	"fi":    {Name: "Finnish", Native: "Suomi"},
	"fr":    {Name: "French", Native: "Français"},
	"he":    {Name: "Hebrew", Native: "עברית"},
	"hi":    {Name: "Hindi", Native: "हिन्दी"},
	"hr":    {Name: "Croatian", Native: "Hrvatski"},
	"hu":    {Name: "Hungarian", Native: "Magyar"},
	"id":    {Name: "Indonesian", Native: "Bahasa Indonesia"},
	"it":    {Name: "Italian", Native: "Italiano"},
	"ja":    {Name: "Japanese", Native: "日本語"},
	"ka":    {Name: "Georgian", Native: "ქართული"},
	"ko":    {Name: "Korean", Native: "한국어"},
	"lt":    {Name: "Lithuanian", Native: "Lietuvių"},
	"lv":    {Name: "Latvian", Native: "Latviešu"},
	"nb":    {Name: "Norwegian Bokmål", Native: "Norsk bokmål"},
	"nl":    {Name: "Dutch", Native: "Nederlands"},
	"pl":    {Name: "Polish", Native: "Polski"},
	"pt":    {Name: "Portuguese", Native: "Português"},
	"pt-BR": {Name: "Portuguese (Brazil)", Native: "Português (Brasil)"},
	"ro":    {Name: "Romanian", Native: "Română"},
	"ru":    {Name: "Russian", Native: "Русский"},
	"sk":    {Name: "Slovak", Native: "Slovenčina"},
	"sl":    {Name: "Slovenian", Native: "Slovenščina"},
	"sr":    {Name: "Serbian", Native: "Српски"},
	"sv":    {Name: "Swedish", Native: "Svenska"},
	"th":    {Name: "Thai", Native: "ไทย"},
	"tr":    {Name: "Turkish", Native: "Türkçe"},
	"uk":    {Name: "Ukrainian", Native: "Українська"},
	"vi":    {Name: "Vietnamese", Native: "Tiếng Việt"},
	"zh":    {Name: "Chinese", Native: "中文"},
	"zh-TW": {Name: "Chinese (Traditional)", Native: "繁體中文"},
}

// Resolve returns metadata for a language code, tolerating case
// differences, underscores, and regional variants (de_AT → de,
// pt-br → pt-BR).
func Resolve(code string) (Meta, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return Meta{}, false
	}

	tag, err := language.Parse(code)
	if err == nil {
		if m, ok := Registry[tag.String()]; ok {
			return m, true
		}
		if base, conf := tag.Base(); conf != language.No {
			if m, ok := Registry[base.String()]; ok {
				return m, true
			}
		}
	}

	// Manual fallback for codes x/text rejects.
	lower := strings.ToLower(code)
	if m, ok := Registry[lower]; ok {
		return m, true
	}
	if i := strings.IndexByte(lower, '-'); i > 0 {
		if m, ok := Registry[lower[:i]]; ok {
			return m, true
		}
	}
	return Meta{}, false
}

// Name returns the English language name, or the code itself when the
// language is not in the registry.
func Name(code string) string {
	if m, ok := Resolve(code); ok {
		return m.Name
	}
	return code
}

// Known reports whether a code resolves to a registered language.
func Known(code string) bool {
	_, ok := Resolve(code)
	return ok
}

// Codes returns all registry codes, sorted.
func Codes() []string {
	out := make([]string, 0, len(Registry))
	for c := range Registry {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
