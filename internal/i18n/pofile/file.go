// Package pofile reads and writes gettext PO catalogs.
//
// Entry order and every field the site generator does not interpret (comments,
// flags, plural forms, obsolete entries) survive a Parse/Write round trip, so
// a translator's edits are never reordered or dropped when new keys are appended.
package pofile

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one catalog message.
type Entry struct {
	Comments   []string // "# " translator comments
	Extracted  []string // "#." extracted comments
	References []string // "#:" source references
	Flags      []string // "#," flags such as fuzzy
	Previous   string   // "#| msgid" of a fuzzy entry

	Context    string
	ID         string
	IDPlural   string
	Text       string
	TextPlural map[int]string

	Obsolete bool
}

// File is a parsed catalog. Header is the msgid "" entry.
type File struct {
	Header  *Entry
	Entries []*Entry
}

// New returns an empty catalog with a minimal header for lang.
func New(project, lang string) *File {
	now := time.Now().UTC().Format("2006-01-02 15:04-0700")
	header := fmt.Sprintf(
		"Project-Id-Version: %s\n"+
			"PO-Revision-Date: %s\n"+
			"Language: %s\n"+
			"MIME-Version: 1.0\n"+
			"Content-Type: text/plain; charset=UTF-8\n"+
			"Content-Transfer-Encoding: 8bit\n",
		project, now, lang,
	)
	return &File{Header: &Entry{Text: header}}
}

// Lookup returns the live entry for id, or nil.
func (f *File) Lookup(id string) *Entry {
	for _, e := range f.Entries {
		if e.ID == id && e.Context == "" && !e.Obsolete {
			return e
		}
	}
	return nil
}

// Append adds a new entry after all existing ones.
func (f *File) Append(id, text string) *Entry {
	e := &Entry{ID: id, Text: text}
	f.Entries = append(f.Entries, e)
	return e
}

// Len returns the number of live entries.
func (f *File) Len() int {
	n := 0
	for _, e := range f.Entries {
		if !e.Obsolete {
			n++
		}
	}
	return n
}

// IDs returns the ids of live singular entries in file order.
func (f *File) IDs() []string {
	ids := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		if e.Obsolete || e.Context != "" {
			continue
		}
		ids = append(ids, e.ID)
	}
	return ids
}

// HeaderField returns the value of a header field, matched case-insensitively.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for line := range strings.SplitSeq(f.Header.Text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
