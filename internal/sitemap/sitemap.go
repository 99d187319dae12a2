package sitemap

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned by Get for unknown names.
var ErrNotFound = errors.New("element not found")

// SiteMap maps element names to elements. Names are unique across pages and
// posts; adding an existing name replaces the earlier entry.
//
// A SiteMap is populated once and then only read, so concurrent Get calls
// need no locking. Add must not race with readers.
type SiteMap struct {
	elements map[string]Element
}

// New returns an empty site map.
func New() *SiteMap {
	return &SiteMap{elements: make(map[string]Element)}
}

// Add inserts e, replacing any element with the same name.
func (m *SiteMap) Add(e Element) {
	m.elements[e.Name] = e
}

// Get returns the element called name.
func (m *SiteMap) Get(name string) (Element, error) {
	e, ok := m.elements[name]
	if !ok {
		return Element{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Len returns the number of distinct elements.
func (m *SiteMap) Len() int { return len(m.elements) }

// Names returns the element names in sorted order.
func (m *SiteMap) Names() []string {
	names := make([]string, 0, len(m.elements))
	for name := range m.elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Elements returns all elements sorted by name.
func (m *SiteMap) Elements() []Element {
	out := make([]Element, 0, len(m.elements))
	for _, name := range m.Names() {
		out = append(out, m.elements[name])
	}
	return out
}

// Of returns the elements of kind k sorted by name.
func (m *SiteMap) Of(k Kind) []Element {
	var out []Element
	for _, e := range m.Elements() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
