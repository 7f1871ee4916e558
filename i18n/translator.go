package i18n

import (
	"log"
	"strings"

	"golang.org/x/text/language"
)

// Args carries the locale and the substitution parameters of a lookup.
// Parameters are substituted into "{name}" placeholders.
type Args struct {
	Locale string
	Params map[string]string
}

// Translator resolves a message key to a locale-appropriate string.
type Translator interface {
	T(key string, args Args) string
}

// CatalogTranslator is a Translator backed by in-memory message catalogs,
// matched against the requested locale with x/text language matching.
type CatalogTranslator struct {
	matcher  language.Matcher
	catalogs []map[string]string
	fallback map[string]string
}

// NewCatalogTranslator builds a translator over the built-in catalogs.
// The first catalog's language is the fallback for unknown locales and
// missing keys.
func NewCatalogTranslator() *CatalogTranslator {
	tags := make([]language.Tag, 0, len(builtinCatalogs))
	catalogs := make([]map[string]string, 0, len(builtinCatalogs))
	for _, catalog := range builtinCatalogs {
		tags = append(tags, catalog.tag)
		catalogs = append(catalogs, catalog.messages)
	}

	return &CatalogTranslator{
		matcher:  language.NewMatcher(tags),
		catalogs: catalogs,
		fallback: catalogs[0],
	}
}

func (t *CatalogTranslator) T(key string, args Args) string {
	message, ok := t.lookup(key, args.Locale)
	if !ok {
		log.Printf("⚠️ Missing translation for key %s - returning key", key)
		return key
	}

	for name, value := range args.Params {
		message = strings.ReplaceAll(message, "{"+name+"}", value)
	}
	return message
}

func (t *CatalogTranslator) lookup(key, locale string) (string, bool) {
	catalog := t.fallback
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			_, index, _ := t.matcher.Match(tag)
			catalog = t.catalogs[index]
		}
	}

	if message, ok := catalog[key]; ok {
		return message, true
	}
	// Fall back to the default language for keys a catalog does not carry
	message, ok := t.fallback[key]
	return message, ok
}
