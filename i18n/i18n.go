// Package i18n localizes paneltrans's own user-facing strings: catalog
// notices, CLI status lines and panel prompts.
//
// It wraps gotext. Catalogs are embedded from locales/{lang}/LC_MESSAGES/
// paneltrans.po and loaded by Init. Until Init is called, T and N return
// the message IDs unchanged.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "paneltrans"

var (
	mu sync.RWMutex
	po *gotext.Locale
	// msgs holds the singular translations of po. Locale.Get formats its
	// argument, which would mangle msgids that carry verbs for Tf.
	msgs map[string]*gotext.Translation
)

// Init loads the catalog for lang. An empty lang is detected from
// LANGUAGE, LC_ALL, LC_MESSAGES and LANG, in that order.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	l := gotext.NewLocaleFSWithPath(lang, locales, "locales")
	l.AddDomain(domain)
	l.SetDomain(domain)

	mu.Lock()
	po = l
	msgs = l.GetTranslations()
	mu.Unlock()
}

// T translates msgid.
func T(msgid string) string {
	mu.RLock()
	defer mu.RUnlock()
	if tr, ok := msgs[msgid]; ok {
		return tr.Get()
	}
	return msgid
}

// Tf translates a format string and applies args.
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}

// N translates a message with plural forms.
func N(singular, plural string, n int) string {
	mu.RLock()
	defer mu.RUnlock()
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ru_RU.UTF-8 -> ru_RU
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
