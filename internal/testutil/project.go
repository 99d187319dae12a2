// Package testutil builds throwaway project trees for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Project is a project root under t.TempDir().
type Project struct {
	t    *testing.T
	Root string
}

// NewProject creates an empty project tree.
func NewProject(t *testing.T) *Project {
	t.Helper()
	return &Project{t: t, Root: t.TempDir()}
}

// Path returns the absolute path of a slash separated relative path.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// File writes body to rel, creating parent directories.
func (p *Project) File(rel, body string) *Project {
	p.t.Helper()
	path := p.Path(rel)
	require.NoError(p.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(p.t, os.WriteFile(path, []byte(body), 0o600))
	return p
}

// Page writes the template of page name.
func (p *Project) Page(name, tmpl string) *Project {
	p.t.Helper()
	return p.File("pages/"+name+"/page.html", tmpl)
}

// Post writes the template of post name.
func (p *Project) Post(name, tmpl string) *Project {
	p.t.Helper()
	return p.File("posts/"+name+"/post.html", tmpl)
}

// StringTable writes a string_table.json in dir from key, value pairs.
func (p *Project) StringTable(dir string, pairs ...string) *Project {
	p.t.Helper()
	require.Zero(p.t, len(pairs)%2, "string table needs key/value pairs")
	records := make([]map[string]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		records = append(records, map[string]string{"KEY": pairs[i], "VALUE": pairs[i+1]})
	}
	return p.JSON(strings.TrimSuffix(dir, "/")+"/string_table.json", records)
}

// GeneratorConfig writes config.json.
func (p *Project) GeneratorConfig(values map[string]any) *Project {
	p.t.Helper()
	return p.JSON("config.json", values)
}

// SiteConfig writes site.config.json.
func (p *Project) SiteConfig(values map[string]any) *Project {
	p.t.Helper()
	return p.JSON("site.config.json", values)
}

// JSON writes v as indented JSON to rel.
func (p *Project) JSON(rel string, v any) *Project {
	p.t.Helper()
	data, err := json.MarshalIndent(v, "", "    ")
	require.NoError(p.t, err)
	return p.File(rel, string(data))
}

// Read returns the contents of rel.
func (p *Project) Read(rel string) string {
	p.t.Helper()
	data, err := os.ReadFile(p.Path(rel))
	require.NoError(p.t, err)
	return string(data)
}

// Assert returns file assertions rooted at rel.
func (p *Project) Assert(rel string) *FileAssertions {
	return NewFileAssertions(p.t, p.Path(rel))
}
