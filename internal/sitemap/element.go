// Package sitemap models the content elements of one generation pass.
//
// An Element is a closed variant over pages and posts. Elements are plain
// values: nothing about an element changes while it is rendered, so the same
// element can be rendered for several languages at once.
package sitemap

import (
	"fmt"
	"path"
	"time"
)

// Kind tags an Element as a page or a post.
type Kind int

const (
	KindPage Kind = iota
	KindPost
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindPost:
		return "post"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Dir is the directory name used for both sources and output ("pages" or "posts").
func (k Kind) Dir() string { return k.String() + "s" }

// TemplateFile is the element template name inside its source directory.
func (k Kind) TemplateFile() string { return k.String() + ".html" }

// Element is one page or post. Date is only meaningful for posts.
type Element struct {
	Kind Kind
	Name string
	Date time.Time
}

// NewPage returns a page element.
func NewPage(name string) Element {
	return Element{Kind: KindPage, Name: name}
}

// NewPost returns a post element created on date.
func NewPost(name string, date time.Time) Element {
	return Element{Kind: KindPost, Name: name, Date: date}
}

// IsPost reports whether e is a post.
func (e Element) IsPost() bool { return e.Kind == KindPost }

// URL returns the site-absolute URL of e in lang.
func (e Element) URL(lang string) string {
	return "/" + path.Join(lang, e.Kind.Dir(), e.Name+".html")
}

// SourceDir returns the directory holding e's template, relative to the project root.
func (e Element) SourceDir() string { return path.Join(e.Kind.Dir(), e.Name) }

func (e Element) String() string {
	return fmt.Sprintf("%s %s", e.Kind, e.Name)
}
