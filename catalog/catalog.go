// Package catalog parses the language listing printed by the translation
// tool and answers the prefix lookups used to pick source and target
// languages.
//
// The listing is column aligned, but column widths depend on the widest
// language code the tool knows about, so column boundaries are located by
// scanning the first line instead of using fixed offsets:
//
//	af    Afrikaans      Afrikaans
//	sq    Albanian       Shqip
//	am    Amharic        አማርኛ
package catalog

import (
	"strings"
	"sync/atomic"
)

// Language is one entry of the catalog.
type Language struct {
	// Code is the identifier passed to the translation tool (e.g. "fr", "zh-TW").
	Code string `json:"code" yaml:"code"`
	// EnglishName is the human-facing lookup key (e.g. "French").
	EnglishName string `json:"englishName" yaml:"english_name"`
	// Name is the language's name for itself (e.g. "Français").
	Name string `json:"name" yaml:"name"`
}

// String returns the English name, which is what entry fields display.
func (l Language) String() string {
	return l.EnglishName
}

// Parse splits a raw listing into languages. Lines missing any of the
// three fields after trimming are skipped, the first line included.
// Malformed or empty input yields nil.
func Parse(listing string) []Language {
	lines := strings.Split(listing, "\n")
	header := strings.TrimRight(lines[0], " \t\r")

	nameStart, englishNameStart := columns(header)
	if nameStart <= 0 || englishNameStart <= 0 {
		return nil
	}

	var langs []Language
	for _, line := range lines {
		runes := []rune(strings.TrimRight(line, "\r"))
		lang := Language{
			Code:        strings.TrimSpace(slice(runes, 0, englishNameStart)),
			EnglishName: strings.TrimSpace(slice(runes, englishNameStart, nameStart)),
			Name:        strings.TrimSpace(slice(runes, nameStart, len(runes))),
		}
		if lang.Code == "" || lang.EnglishName == "" || lang.Name == "" {
			continue
		}
		langs = append(langs, lang)
	}
	return langs
}

// columns returns the rune offsets at which the last and second-to-last
// columns of header begin. Zero means the boundary could not be found.
func columns(header string) (nameStart, englishNameStart int) {
	runes := []rune(header)
	nameStart = lastSpace(runes) + 1
	if nameStart <= 1 {
		return 0, 0
	}
	head := []rune(strings.TrimRight(string(runes[:nameStart-1]), " \t"))
	englishNameStart = lastSpace(head) + 1
	return nameStart, englishNameStart
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

func slice(runes []rune, from, to int) string {
	if to > len(runes) {
		to = len(runes)
	}
	if from >= to {
		return ""
	}
	return string(runes[from:to])
}

// Lookup returns the first language, in order, whose English name starts
// with prefix, ignoring case. An empty prefix never matches.
func Lookup(langs []Language, prefix string) (Language, bool) {
	if prefix == "" {
		return Language{}, false
	}
	p := strings.ToLower(prefix)
	for _, l := range langs {
		if strings.HasPrefix(strings.ToLower(l.EnglishName), p) {
			return l, true
		}
	}
	return Language{}, false
}

// Catalog is the in-memory language list. The list is replaced as a whole
// on every refresh, so readers always see a complete snapshot.
type Catalog struct {
	langs atomic.Pointer[[]Language]
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Replace swaps in a new language list.
func (c *Catalog) Replace(langs []Language) {
	snapshot := make([]Language, len(langs))
	copy(snapshot, langs)
	c.langs.Store(&snapshot)
}

func (c *Catalog) snapshot() []Language {
	if p := c.langs.Load(); p != nil {
		return *p
	}
	return nil
}

// Languages returns a copy of the current list.
func (c *Catalog) Languages() []Language {
	s := c.snapshot()
	out := make([]Language, len(s))
	copy(out, s)
	return out
}

// Len returns the number of languages in the current snapshot.
func (c *Catalog) Len() int {
	return len(c.snapshot())
}

// Lookup resolves an English-name prefix against the current snapshot.
func (c *Catalog) Lookup(prefix string) (Language, bool) {
	return Lookup(c.snapshot(), prefix)
}

// ByCode finds a language by its exact code.
func (c *Catalog) ByCode(code string) (Language, bool) {
	for _, l := range c.snapshot() {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
