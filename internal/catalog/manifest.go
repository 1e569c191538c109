// Package catalog loads the model manifest and keeps the category menu state.
//
// A manifest is a JSON object mapping category names to arrays of model
// base names:
//
//	{"cars": ["mini", "truck"], "animals": ["cat"]}
//
// Document order is preserved for both categories and files.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/logger"
)

// Manifest errors.
var (
	ErrManifestNotObject = errors.New("manifest must be a JSON object")
	ErrCategoryNotList   = errors.New("manifest category must be an array of strings")
)

// Category is one collapsible menu section.
type Category struct {
	Name  string
	Files []string
}

// Manifest is the parsed files.json.
type Manifest struct {
	Categories []Category
}

// Category returns the named category.
func (m *Manifest) Category(name string) (Category, bool) {
	for _, c := range m.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Entries flattens the manifest into (category, file) pairs in order.
func (m *Manifest) Entries() []Entry {
	var out []Entry
	for _, c := range m.Categories {
		for _, f := range c.Files {
			out = append(out, Entry{Category: c.Name, File: f})
		}
	}
	return out
}

// Len returns the total number of files.
func (m *Manifest) Len() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Files)
	}
	return n
}

// ParseManifest decodes a manifest. A repeated category key replaces the
// earlier file list but keeps its position.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrManifestNotObject
	}

	m := &Manifest{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		name := tok.(string) // object keys are always strings

		var files []string
		if err := dec.Decode(&files); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrCategoryNotList, name, err)
		}
		if files == nil {
			files = []string{}
		}

		if i, ok := index[name]; ok {
			m.Categories[i].Files = files
			continue
		}
		index[name] = len(m.Categories)
		m.Categories = append(m.Categories, Category{Name: name, Files: files})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parse manifest: trailing data after object")
	}
	return m, nil
}

// Fetch issues one request for the manifest and parses it. No retry.
// Non-200 responses surface as *assets.StatusError.
func Fetch(ctx context.Context, src assets.Source, path string) (*Manifest, error) {
	data, err := src.Fetch(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("manifest loaded",
		zap.String("path", path),
		zap.Int("categories", len(m.Categories)),
		zap.Int("files", m.Len()))
	return m, nil
}
