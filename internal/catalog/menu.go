package catalog

import (
	"strings"
	"sync"
)

// Entry identifies one model in the manifest.
type Entry struct {
	Category string
	File     string
}

// Name is the logical object name a loaded entry is registered under.
func (e Entry) Name() string {
	return e.File
}

// ModelPath builds {modelsURL}{category}/{file}.{ext}.
func ModelPath(modelsURL, ext string, e Entry) string {
	return modelsURL + e.Category + "/" + e.File + "." + strings.TrimPrefix(ext, ".")
}

// Menu holds the category panels shown in the file browser. Each Rebuild
// clears and refills every panel; expansion state survives rebuilds for
// categories that still exist.
type Menu struct {
	mu         sync.RWMutex
	categories []Category
	expanded   map[string]bool
}

// NewMenu creates an empty menu.
func NewMenu() *Menu {
	return &Menu{expanded: make(map[string]bool)}
}

// Rebuild replaces the panels with the manifest's categories.
func (m *Menu) Rebuild(manifest *Manifest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.categories = make([]Category, 0, len(manifest.Categories))
	keep := make(map[string]bool, len(manifest.Categories))
	for _, c := range manifest.Categories {
		files := make([]string, len(c.Files))
		copy(files, c.Files)
		m.categories = append(m.categories, Category{Name: c.Name, Files: files})
		if m.expanded[c.Name] {
			keep[c.Name] = true
		}
	}
	m.expanded = keep
}

// Clear empties every panel.
func (m *Menu) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = nil
	m.expanded = make(map[string]bool)
}

// Categories returns a snapshot of the panels.
func (m *Menu) Categories() []Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Category, len(m.categories))
	for i, c := range m.categories {
		out[i] = Category{Name: c.Name, Files: append([]string(nil), c.Files...)}
	}
	return out
}

// Entries returns the entries of one category.
func (m *Menu) Entries(category string) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories {
		if c.Name != category {
			continue
		}
		out := make([]Entry, len(c.Files))
		for i, f := range c.Files {
			out[i] = Entry{Category: c.Name, File: f}
		}
		return out
	}
	return nil
}

// Len returns the total number of entries across panels.
func (m *Menu) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.categories {
		n += len(c.Files)
	}
	return n
}

// Toggle flips a panel between collapsed and expanded and returns the new
// state.
func (m *Menu) Toggle(category string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	open := !m.expanded[category]
	if open {
		m.expanded[category] = true
	} else {
		delete(m.expanded, category)
	}
	return open
}

// Expanded reports whether a panel is open.
func (m *Menu) Expanded(category string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expanded[category]
}
