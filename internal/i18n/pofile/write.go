package pofile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Write serializes f to w.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	first := true
	emit := func(e *Entry) {
		if !first {
			_ = bw.WriteByte('\n')
		}
		first = false
		writeEntry(bw, e)
	}

	if f.Header != nil {
		emit(f.Header)
	}
	for _, e := range f.Entries {
		emit(e)
	}
	return bw.Flush()
}

// Bytes returns the serialized catalog.
func (f *File) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEntry(w *bufio.Writer, e *Entry) {
	for _, c := range e.Comments {
		writeComment(w, "#", c)
	}
	for _, c := range e.Extracted {
		writeComment(w, "#.", c)
	}
	for _, ref := range e.References {
		writeComment(w, "#:", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.Previous != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.Previous))
	}

	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	if e.Context != "" {
		writeField(w, prefix, "msgctxt", e.Context)
	}
	writeField(w, prefix, "msgid", e.ID)
	if e.IDPlural != "" {
		writeField(w, prefix, "msgid_plural", e.IDPlural)
	}

	if e.IDPlural == "" || len(e.TextPlural) == 0 {
		writeField(w, prefix, "msgstr", e.Text)
		return
	}
	indices := make([]int, 0, len(e.TextPlural))
	for idx := range e.TextPlural {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		writeField(w, prefix, fmt.Sprintf("msgstr[%d]", idx), e.TextPlural[idx])
	}
}

func writeComment(w *bufio.Writer, marker, text string) {
	if text == "" {
		fmt.Fprintln(w, marker)
		return
	}
	fmt.Fprintf(w, "%s %s\n", marker, text)
}

// writeField writes a keyword and its value, splitting multi-line values after
// each newline the way gettext tools do.
func writeField(w *bufio.Writer, prefix, keyword, value string) {
	if !strings.Contains(value, "\n") || value == "\n" {
		fmt.Fprintf(w, "%s%s %s\n", prefix, keyword, quote(value))
		return
	}
	fmt.Fprintf(w, "%s%s \"\"\n", prefix, keyword)
	for _, part := range strings.SplitAfter(value, "\n") {
		if part != "" {
			fmt.Fprintf(w, "%s%s\n", prefix, quote(part))
		}
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}
