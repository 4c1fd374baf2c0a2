package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minios-linux/paneltrans/i18n"
)

// Guard errors, returned before any command is issued.
var (
	ErrNoLanguage = errors.New("source and target languages must both be selected")
	ErrNoText     = errors.New("no text to process")
)

// Catalog refresh outcomes.
var (
	// ErrCatalogUnavailable means the translation tool is not installed.
	ErrCatalogUnavailable = errors.New("translation tool not found")
	// ErrCatalogEmpty means the tool ran but no language could be parsed
	// from its listing.
	ErrCatalogEmpty = errors.New("translation tool listed no languages")
)

// CatalogError is a refresh that ran the tool and got a non-zero exit.
type CatalogError struct {
	ExitCode int
	Stderr   string
}

func (e *CatalogError) Error() string {
	msg := fmt.Sprintf("language listing failed with exit code %d", e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// TranslationError is a translate command that exited non-zero. The
// previous result text is left in place.
type TranslationError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *TranslationError) Error() string {
	msg := fmt.Sprintf("translation failed with exit code %d", e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// CatalogState is the availability of the language catalog.
type CatalogState int

const (
	CatalogUnknown CatalogState = iota
	CatalogLoading
	CatalogReady
	CatalogUnavailable
	CatalogFailed
	CatalogEmpty
)

func (s CatalogState) String() string {
	switch s {
	case CatalogLoading:
		return "loading"
	case CatalogReady:
		return "ready"
	case CatalogUnavailable:
		return "unavailable"
	case CatalogFailed:
		return "failed"
	case CatalogEmpty:
		return "empty"
	}
	return "unknown"
}

// CatalogStatus is the outcome of the latest refresh.
type CatalogStatus struct {
	State    CatalogState
	ExitCode int
	Count    int
	Stderr   string
}

// Err maps the status to the error taxonomy; nil unless the last refresh
// failed.
func (s CatalogStatus) Err() error {
	switch s.State {
	case CatalogUnavailable:
		return ErrCatalogUnavailable
	case CatalogFailed:
		return &CatalogError{ExitCode: s.ExitCode, Stderr: s.Stderr}
	case CatalogEmpty:
		return ErrCatalogEmpty
	}
	return nil
}

// Notice is the persistent, user-visible message for a failed refresh.
// It is empty when there is nothing to report.
func (s CatalogStatus) Notice() string {
	switch s.State {
	case CatalogUnavailable:
		return i18n.T(`Required "trans" command not found, please install translate-shell`)
	case CatalogFailed:
		return i18n.Tf(`Error, the "trans" command returned an exit code of %d`, s.ExitCode)
	case CatalogEmpty:
		return i18n.T("Unable to query available languages from translate-shell")
	}
	return ""
}
