package catalog

// Completion is the entry-field state after a keystroke has been applied.
type Completion struct {
	// Text is what the entry field should display.
	Text string
	// Cursor is the logical cursor position, in runes.
	Cursor int
	// Language is the matched language, valid when Found is true.
	Language Language
	Found    bool
	// Cleared reports that the field was emptied (backspace to column 0).
	Cleared bool
}

// Autocomplete drives a language entry field as the user types. Only the
// text before the cursor takes part in the lookup, so characters after an
// accepted completion do not defeat matching. A cursor of -1 means the end
// of text. On backspace the logical cursor steps back one more rune, and
// reaching column 0 clears the field.
func Autocomplete(c *Catalog, text string, cursor int, backspace bool) Completion {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		cursor = len(runes)
	}
	if backspace && cursor > 0 {
		cursor--
		if cursor == 0 {
			return Completion{Cleared: true}
		}
	}

	lang, ok := c.Lookup(string(runes[:cursor]))
	if !ok {
		return Completion{Text: text, Cursor: cursor}
	}
	return Completion{
		Text:     lang.EnglishName,
		Cursor:   cursor,
		Language: lang,
		Found:    true,
	}
}
