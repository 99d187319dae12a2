package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type field int

const (
	fieldNone field = iota
	fieldContext
	fieldID
	fieldIDPlural
	fieldText
	fieldTextPlural
)

type parser struct {
	file    *File
	current *Entry
	last    field
	plural  int
}

// Parse reads a catalog from r.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: &File{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := p.line(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	p.flush()
	return p.file, nil
}

// ParseFile reads a catalog from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}

func (p *parser) flush() {
	if p.current == nil {
		return
	}
	if p.current.ID == "" && p.current.Context == "" && !p.current.Obsolete && p.file.Header == nil {
		p.file.Header = p.current
	} else {
		p.file.Entries = append(p.file.Entries, p.current)
	}
	p.current = nil
	p.last = fieldNone
}

// complete reports whether the current entry has seen more than a context.
func (p *parser) complete() bool {
	return p.last != fieldNone && p.last != fieldContext
}

func (p *parser) entry() *Entry {
	if p.current == nil {
		p.current = &Entry{}
	}
	return p.current
}

func (p *parser) line(line string) error {
	if strings.TrimSpace(line) == "" {
		p.flush()
		return nil
	}

	rest, obsolete := strings.CutPrefix(line, "#~")
	if obsolete {
		// an obsolete block right after a live message starts a new entry
		if p.current != nil && !p.current.Obsolete && p.complete() {
			p.flush()
		}
		p.entry().Obsolete = true
		line = strings.TrimPrefix(rest, " ")
	} else if p.current != nil && p.current.Obsolete && p.complete() {
		// and so does a live line after a complete obsolete one
		p.flush()
	}

	if strings.HasPrefix(line, "#") {
		// a comment after a complete message starts the next entry
		if p.current != nil && p.complete() {
			p.flush()
		}
		p.comment(line)
		return nil
	}

	keyword, rest, _ := strings.Cut(line, " ")
	if (keyword == "msgid" || keyword == "msgctxt") && (p.last == fieldText || p.last == fieldTextPlural) {
		p.flush()
		p.entry().Obsolete = obsolete
	}
	e := p.entry()
	switch {
	case keyword == "msgctxt":
		e.Context = unquote(rest)
		p.last = fieldContext
	case keyword == "msgid":
		e.ID = unquote(rest)
		p.last = fieldID
	case keyword == "msgid_plural":
		e.IDPlural = unquote(rest)
		p.last = fieldIDPlural
	case keyword == "msgstr":
		e.Text = unquote(rest)
		p.last = fieldText
	case strings.HasPrefix(keyword, "msgstr[") && strings.HasSuffix(keyword, "]"):
		idx, err := strconv.Atoi(keyword[len("msgstr[") : len(keyword)-1])
		if err != nil {
			return fmt.Errorf("invalid plural index %q", keyword)
		}
		if e.TextPlural == nil {
			e.TextPlural = make(map[int]string)
		}
		e.TextPlural[idx] = unquote(rest)
		p.last = fieldTextPlural
		p.plural = idx
	case strings.HasPrefix(line, `"`):
		p.continuation(unquote(line))
	default:
		return fmt.Errorf("unexpected content %q", line)
	}
	return nil
}

func (p *parser) comment(line string) {
	e := p.entry()
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#,"):
		for flag := range strings.SplitSeq(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.Extracted = append(e.Extracted, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		if prev, ok := strings.CutPrefix(strings.TrimSpace(line[2:]), "msgid "); ok {
			e.Previous = unquote(prev)
		}
	default:
		e.Comments = append(e.Comments, strings.TrimPrefix(line[1:], " "))
	}
}

func (p *parser) continuation(s string) {
	e := p.entry()
	switch p.last {
	case fieldContext:
		e.Context += s
	case fieldID:
		e.ID += s
	case fieldIDPlural:
		e.IDPlural += s
	case fieldText:
		e.Text += s
	case fieldTextPlural:
		e.TextPlural[p.plural] += s
	}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
