// Package blocklist holds the set of interactive shells and
// administrative tools the daemon keeps from executing while a block
// window is open.
package blocklist

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Patterns holds the raw process-name patterns organized by category.
type Patterns struct {
	Shells     []string `yaml:"shells"`
	AdminTools []string `yaml:"admin_tools"`
	Extra      []string `yaml:"extra,omitempty"`
}

// Blocklist matches process names against the configured set. Matching
// is by lowercase base name with any .exe suffix stripped, so entries
// written on one host still match on another.
type Blocklist struct {
	categories map[string]string // normalized name -> category
	raw        Patterns
}

// New creates a Blocklist from raw patterns.
func New(p Patterns) *Blocklist {
	b := &Blocklist{
		categories: make(map[string]string),
		raw:        p,
	}
	for _, name := range p.Shells {
		b.categories[normalize(name)] = "shell"
	}
	for _, name := range p.AdminTools {
		b.categories[normalize(name)] = "admin tool"
	}
	for _, name := range p.Extra {
		b.categories[normalize(name)] = "extra"
	}
	delete(b.categories, "")
	return b
}

// NewDefault creates a Blocklist with the hardcoded default set.
func NewDefault() *Blocklist {
	return New(DefaultPatterns)
}

// Load reads a blocklist from a YAML file. Falls back to the defaults if
// the file does not exist.
func Load(path string) (*Blocklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, err
	}

	var p Patterns
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return New(p), nil
}

// Match reports whether a process name is on the blocklist, and the
// category it matched under.
func (b *Blocklist) Match(process string) (bool, string) {
	category, ok := b.categories[normalize(process)]
	return ok, category
}

// Names returns every configured name, for status output.
func (b *Blocklist) Names() []string {
	names := make([]string, 0, len(b.categories))
	for name := range b.categories {
		names = append(names, name)
	}
	return names
}

// Raw returns the raw patterns for serialization.
func (b *Blocklist) Raw() Patterns {
	return b.raw
}

// normalize reduces a process path or name to its comparable form.
func normalize(process string) string {
	name := filepath.Base(strings.TrimSpace(process))
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".exe")
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
