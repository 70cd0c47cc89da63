// Package jsondoc stores the category mapping as a single JSON object
// file, category name -> keyword list. Object key order is preserved on
// both read and write because category order drives the classifier's
// tie-break.
package jsondoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"clearspend/internal/categories"
)

type Document struct {
	path string
}

func New(path string) *Document {
	return &Document{path: path}
}

func (d *Document) Load(_ context.Context) ([]categories.Entry, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read category file: %w", err)
	}
	entries, err := decodeOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("decode category file %s: %w", d.path, err)
	}
	return entries, nil
}

func (d *Document) Store(_ context.Context, entries []categories.Entry) error {
	if dir := filepath.Dir(d.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create category directory: %w", err)
		}
	}
	data, err := encodeOrdered(entries)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := os.WriteFile(d.path, data, 0644); err != nil {
		return fmt.Errorf("write category file: %w", err)
	}
	return nil
}

// decodeOrdered walks the top-level object token by token so that the
// entry order matches the file, which encoding/json maps would lose.
func decodeOrdered(data []byte) ([]categories.Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected top-level object, got %v", tok)
	}

	var entries []categories.Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		var keywords []string
		if err := dec.Decode(&keywords); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		entries = append(entries, categories.Entry{Name: name, Keywords: keywords})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func encodeOrdered(entries []categories.Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, e := range entries {
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		keywords := e.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		kws, err := json.Marshal(keywords)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(name)
		buf.WriteString(": ")
		buf.Write(kws)
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
